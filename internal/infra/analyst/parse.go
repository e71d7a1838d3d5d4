package analyst

import (
	"strconv"
	"strings"

	"stockwatch/internal/domain/entity"
)

// parseSentimentReport parses the OVERALL/ARTICLES response protocol.
// Missing or malformed pieces default to neutral so a sloppy model response
// never fails the whole analysis.
func parseSentimentReport(raw string, articleCount int) SentimentReport {
	report := SentimentReport{
		Overall:  entity.SentimentNeutral,
		Articles: make([]entity.Sentiment, articleCount),
	}
	for i := range report.Articles {
		report.Articles[i] = entity.SentimentNeutral
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(strings.ToUpper(line), "OVERALL:"):
			report.Overall = entity.ParseSentiment(strings.TrimSpace(line[len("OVERALL:"):]))
		case strings.HasPrefix(strings.ToUpper(line), "ARTICLES:"):
			parseArticleSentiments(strings.TrimSpace(line[len("ARTICLES:"):]), report.Articles)
		}
	}

	return report
}

// parseArticleSentiments fills dst from "1:bullish 2:bearish" pairs.
// Indexes are 1-based; out-of-range or malformed pairs are skipped.
func parseArticleSentiments(s string, dst []entity.Sentiment) {
	for _, pair := range strings.Fields(s) {
		idxStr, label, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 1 || idx > len(dst) {
			continue
		}
		dst[idx-1] = entity.ParseSentiment(label)
	}
}

// parseNumberedLines parses "1: text" lines into a slice of count entries,
// positionally aligned. Missing lines come back empty.
func parseNumberedLines(raw string, count int) []string {
	out := make([]string, count)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		idxStr, text, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil || idx < 1 || idx > count {
			continue
		}
		out[idx-1] = strings.TrimSpace(text)
	}
	return out
}
