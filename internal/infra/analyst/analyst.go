// Package analyst provides AI-backed analysis of stock news. It includes
// clients for Claude (Anthropic) and OpenAI with retry and circuit breaker
// protection, a fallback chain, and a deterministic no-op for development.
package analyst

import (
	"context"
	"errors"

	"stockwatch/internal/domain/entity"
)

// ErrNoArticles indicates analysis was requested with no source articles.
var ErrNoArticles = errors.New("no articles to analyze")

// SentimentReport carries the market mood derived from a batch of articles.
// Articles holds one sentiment per input article, positionally aligned.
type SentimentReport struct {
	Overall  entity.Sentiment
	Articles []entity.Sentiment
}

// Client analyzes news coverage for a stock. Implementations are safe for
// concurrent use.
type Client interface {
	// SummarizeNews condenses recent coverage into a short topical summary
	// with one emoji-prefixed bold topic per line.
	SummarizeNews(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error)

	// AnalyzeSentiment classifies overall and per-article market mood.
	AnalyzeSentiment(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (SentimentReport, error)

	// SummarizeHeadlines produces a one-sentence summary per article,
	// positionally aligned with the input.
	SummarizeHeadlines(ctx context.Context, articles []entity.Article) ([]string, error)

	// ExpandArticle writes a few-sentence plain prose summary of a single
	// article.
	ExpandArticle(ctx context.Context, article entity.Article) (string, error)

	// DailyDigest writes a standalone daily briefing paragraph for the
	// company from the day's coverage.
	DailyDigest(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error)
}
