package board

import (
	"fmt"
	"regexp"
	"strings"

	"stockwatch/internal/domain/entity"
)

var (
	headingLine = regexp.MustCompile(`(?m)^#{1,6}\s+.*$`)
	boldSpan    = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// FormatPrice renders a price as "$x.xx".
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// FormatChange renders a signed percentage move.
func FormatChange(changePercent float64) string {
	return fmt.Sprintf("%+.2f%%", changePercent)
}

// ClassifyChange buckets a move by its sign.
func ClassifyChange(changePercent float64) ChangeClass {
	switch {
	case changePercent > 0:
		return ChangePositive
	case changePercent < 0:
		return ChangeNegative
	default:
		return ChangeNeutral
	}
}

// ChangeGlyph returns the directional arrow for a move.
func ChangeGlyph(changePercent float64) string {
	switch {
	case changePercent > 0:
		return "↑"
	case changePercent < 0:
		return "↓"
	default:
		return "—"
	}
}

// NormalizeSummary cleans analyst markdown for display: heading lines are
// removed, bold spans become strong markup, and surrounding whitespace is
// trimmed.
func NormalizeSummary(markdown string) string {
	s := headingLine.ReplaceAllString(markdown, "")
	s = boldSpan.ReplaceAllString(s, "<strong>$1</strong>")
	return strings.TrimSpace(s)
}

// CorrelateSources pairs the Nth article with the Nth sentiment. A shorter
// sentiment list pads with neutral, never failing.
func CorrelateSources(articles []entity.Article, sentiments []entity.Sentiment) []Source {
	sources := make([]Source, len(articles))
	for i, a := range articles {
		sentiment := entity.SentimentNeutral
		if i < len(sentiments) {
			sentiment = sentiments[i]
		}
		sources[i] = Source{
			URL:       a.URL,
			Name:      a.Source,
			Sentiment: sentiment.Label(),
		}
	}
	return sources
}

// quotePane builds a price pane from quote data and a sentiment report.
func quotePane(priced bool, price, changePercent float64, overall entity.Sentiment, articleSentiments []entity.Sentiment) PricePane {
	pane := PricePane{
		Price:             "N/A",
		ChangePercent:     FormatChange(changePercent),
		ChangeClass:       ClassifyChange(changePercent),
		ChangeGlyph:       ChangeGlyph(changePercent),
		Sentiment:         overall.Label(),
		SentimentGlyph:    overall.Glyph(),
		ArticleSentiments: articleSentiments,
	}
	if priced {
		pane.Price = FormatPrice(price)
	}
	return pane
}

// unavailablePane is the degraded price pane rendered after a provider
// failure. It is never cached.
func unavailablePane() PricePane {
	return PricePane{
		Price:          "N/A",
		ChangePercent:  "N/A",
		ChangeClass:    ChangeNeutral,
		ChangeGlyph:    "—",
		Sentiment:      entity.SentimentNeutral.Label(),
		SentimentGlyph: entity.SentimentNeutral.Glyph(),
		Unavailable:    true,
	}
}
