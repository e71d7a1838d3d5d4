package entity

import "strings"

// Sentiment classifies the expected price impact of news coverage.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// ParseSentiment normalizes a raw label; anything unrecognized is neutral.
func ParseSentiment(raw string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bullish":
		return SentimentBullish
	case "bearish":
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// SentimentFromChange derives a sentiment from the sign of a price change,
// used when no news coverage is available.
func SentimentFromChange(changePercent float64) Sentiment {
	switch {
	case changePercent > 0:
		return SentimentBullish
	case changePercent < 0:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// String returns the lowercase label.
func (s Sentiment) String() string { return string(s) }

// Label returns the capitalized display form ("Bullish").
func (s Sentiment) Label() string {
	if s == "" {
		return "Neutral"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Glyph returns the directional glyph used on cards.
func (s Sentiment) Glyph() string {
	switch s {
	case SentimentBullish:
		return "↑"
	case SentimentBearish:
		return "↓"
	default:
		return "—"
	}
}
