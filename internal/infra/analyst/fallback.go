package analyst

import (
	"context"
	"log/slog"

	"stockwatch/internal/domain/entity"
)

// Fallback tries the primary client and falls back to the secondary when
// the primary errors. The secondary may be nil, in which case primary
// errors pass through.
type Fallback struct {
	primary   Client
	secondary Client
}

// NewFallback chains two analyst clients.
func NewFallback(primary, secondary Client) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) SummarizeNews(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	result, err := f.primary.SummarizeNews(ctx, ticker, companyName, articles)
	if err != nil && f.usable(ctx, err) {
		return f.secondary.SummarizeNews(ctx, ticker, companyName, articles)
	}
	return result, err
}

func (f *Fallback) AnalyzeSentiment(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (SentimentReport, error) {
	result, err := f.primary.AnalyzeSentiment(ctx, ticker, companyName, articles)
	if err != nil && f.usable(ctx, err) {
		return f.secondary.AnalyzeSentiment(ctx, ticker, companyName, articles)
	}
	return result, err
}

func (f *Fallback) SummarizeHeadlines(ctx context.Context, articles []entity.Article) ([]string, error) {
	result, err := f.primary.SummarizeHeadlines(ctx, articles)
	if err != nil && f.usable(ctx, err) {
		return f.secondary.SummarizeHeadlines(ctx, articles)
	}
	return result, err
}

func (f *Fallback) ExpandArticle(ctx context.Context, article entity.Article) (string, error) {
	result, err := f.primary.ExpandArticle(ctx, article)
	if err != nil && f.usable(ctx, err) {
		return f.secondary.ExpandArticle(ctx, article)
	}
	return result, err
}

func (f *Fallback) DailyDigest(ctx context.Context, ticker entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	result, err := f.primary.DailyDigest(ctx, ticker, companyName, articles)
	if err != nil && f.usable(ctx, err) {
		return f.secondary.DailyDigest(ctx, ticker, companyName, articles)
	}
	return result, err
}

// usable reports whether the secondary should be tried. Context
// cancellation and missing-input errors are not worth retrying elsewhere.
func (f *Fallback) usable(ctx context.Context, err error) bool {
	if f.secondary == nil {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	if err == ErrNoArticles {
		return false
	}
	slog.Warn("primary analyst failed, using fallback",
		slog.String("error", err.Error()))
	return true
}
