package analyst

import (
	"context"
	"fmt"

	"stockwatch/internal/domain/entity"
)

// NoOp is a deterministic analyst for development and tests. It derives
// output from the input articles without calling any API.
type NoOp struct{}

// NewNoOp creates a NoOp analyst.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (n *NoOp) SummarizeNews(_ context.Context, _ entity.Ticker, _ string, articles []entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	out := ""
	for i, a := range articles {
		if i >= 3 {
			break
		}
		out += fmt.Sprintf("📰 **%s**: %s\n", a.Source, a.Title)
	}
	return out, nil
}

func (n *NoOp) AnalyzeSentiment(_ context.Context, _ entity.Ticker, _ string, articles []entity.Article) (SentimentReport, error) {
	if len(articles) == 0 {
		return SentimentReport{}, ErrNoArticles
	}
	report := SentimentReport{
		Overall:  entity.SentimentNeutral,
		Articles: make([]entity.Sentiment, len(articles)),
	}
	for i := range report.Articles {
		report.Articles[i] = entity.SentimentNeutral
	}
	return report, nil
}

func (n *NoOp) SummarizeHeadlines(_ context.Context, articles []entity.Article) ([]string, error) {
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	return out, nil
}

func (n *NoOp) ExpandArticle(_ context.Context, article entity.Article) (string, error) {
	const maxLength = 500
	if len(article.Description) <= maxLength {
		return article.Description, nil
	}
	return article.Description[:maxLength] + "...", nil
}

func (n *NoOp) DailyDigest(_ context.Context, _ entity.Ticker, companyName string, articles []entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}
	return fmt.Sprintf("%s was covered in %d articles today.", companyName, len(articles)), nil
}
