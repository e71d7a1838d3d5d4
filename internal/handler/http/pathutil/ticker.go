// Package pathutil provides helpers for extracting and normalizing
// URL path parameters.
package pathutil

import (
	"net/http"
	"regexp"

	"stockwatch/internal/domain/entity"
)

// ExtractTicker reads the {ticker} path value from r and validates it
// as a stock symbol.
func ExtractTicker(r *http.Request) (entity.Ticker, error) {
	return entity.ParseTicker(r.PathValue("ticker"))
}

var tickerSegment = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]{0,9}$`)

// NormalizePath collapses ticker path segments into a placeholder so
// metrics labels stay low-cardinality. Only the final segment is
// considered since all parameterized routes put the ticker last.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return path
	}
	last := path
	if i := lastSlash(path); i >= 0 {
		last = path[i+1:]
	}
	if last != "" && tickerSegment.MatchString(last) && looksParameterized(path) {
		return path[:lastSlash(path)+1] + ":ticker"
	}
	return path
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

var parameterizedPrefixes = []string{
	"/api/company_logo/",
	"/api/stock_price/",
	"/api/stock_sentiment/",
	"/api/stock_news/",
	"/api/stock_summary/",
	"/api/stock_daily_summary/",
	"/api/stock_article_summaries/",
	"/remove_stock/",
}

func looksParameterized(path string) bool {
	for _, p := range parameterizedPrefixes {
		if len(path) > len(p) && path[:len(p)] == p {
			return true
		}
	}
	return false
}
