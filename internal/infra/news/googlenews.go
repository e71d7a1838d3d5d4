// Package news provides the news provider implementation backed by the
// Google News RSS search endpoint, parsed with gofeed.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/observability/metrics"
	"stockwatch/internal/resilience/circuitbreaker"
	"stockwatch/internal/resilience/retry"
	"stockwatch/pkg/config"
)

// maxArticles bounds how many articles a search returns; cards render at
// most five sources.
const maxArticles = 5

// ContentFetcher fetches full article text for thin RSS descriptions.
type ContentFetcher interface {
	FetchContent(ctx context.Context, articleURL string) (string, error)
}

// Searcher queries the Google News RSS search endpoint for recent coverage
// of a company. It includes circuit breaker and retry logic, and optionally
// enhances short descriptions through a ContentFetcher.
type Searcher struct {
	baseURL        string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	contentFetcher ContentFetcher
	threshold      int
}

// NewSearcher creates a news searcher. contentFetcher may be nil to disable
// description enhancement. The endpoint is read from NEWS_API_URL.
func NewSearcher(client *http.Client, contentFetcher ContentFetcher) *Searcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Searcher{
		baseURL:        config.GetEnvString("NEWS_API_URL", "https://news.google.com/rss/search"),
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsFetchConfig()),
		retryConfig:    retry.NewsFetchConfig(),
		contentFetcher: contentFetcher,
		threshold:      config.GetEnvInt("NEWS_CONTENT_THRESHOLD", 200),
	}
}

// Search returns up to five recent articles about the company. It searches
// the last day first and widens to two days when nothing is found, matching
// the upstream behavior. An empty result is returned as an empty slice,
// never an error.
func (s *Searcher) Search(ctx context.Context, companyName string, ticker entity.Ticker) ([]entity.Article, error) {
	query := fmt.Sprintf("%s stock %s", companyName, ticker)

	articles, err := s.search(ctx, query, "1d")
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		articles, err = s.search(ctx, query, "2d")
		if err != nil {
			return nil, err
		}
	}

	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	s.enhanceDescriptions(ctx, articles)
	return articles, nil
}

func (s *Searcher) search(ctx context.Context, query, window string) ([]entity.Article, error) {
	feedURL := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en",
		s.baseURL, url.QueryEscape(query+" when:"+window))

	var articles []entity.Article

	start := time.Now()
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("news fetch circuit breaker open, request rejected",
					slog.String("service", "news-fetch"),
					slog.String("query", query),
					slog.String("state", s.circuitBreaker.State().String()))
				return err
			}
			return err
		}
		articles = cbResult.([]entity.Article)
		return nil
	})
	metrics.RecordProviderRequest("news", retryErr, time.Since(start))

	if retryErr != nil {
		return nil, retryErr
	}
	return articles, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (s *Searcher) doFetch(ctx context.Context, feedURL string) ([]entity.Article, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "stockwatch/1.0"
	fp.Client = s.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]entity.Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		pubAt := time.Now()
		if it.PublishedParsed != nil {
			pubAt = *it.PublishedParsed
		}

		title, source := splitTitleSource(it.Title)
		if source == "" {
			source = hostOf(it.Link)
		}

		image := ""
		if it.Image != nil {
			image = it.Image.URL
		}

		articles = append(articles, entity.Article{
			Title:       title,
			Description: strings.TrimSpace(it.Description),
			URL:         it.Link,
			Source:      source,
			Image:       image,
			PublishedAt: pubAt,
		})
	}

	return articles, nil
}

// enhanceDescriptions fetches full article content for thin descriptions.
// It never fails: any fetch error keeps the RSS description, and a fetched
// body is used only when longer than what the feed gave us.
func (s *Searcher) enhanceDescriptions(ctx context.Context, articles []entity.Article) {
	if s.contentFetcher == nil {
		return
	}
	for i := range articles {
		if len(articles[i].Description) >= s.threshold {
			continue
		}
		content, err := s.contentFetcher.FetchContent(ctx, articles[i].URL)
		if err != nil {
			slog.Debug("content fetch failed, keeping RSS description",
				slog.String("url", articles[i].URL),
				slog.Any("error", err))
			continue
		}
		if len(content) > len(articles[i].Description) {
			articles[i].Description = content
		}
	}
}

// splitTitleSource separates the " - Publisher" suffix Google News appends
// to item titles. Titles without the suffix are returned unchanged.
func splitTitleSource(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "Unknown"
	}
	return strings.TrimPrefix(u.Host, "www.")
}
