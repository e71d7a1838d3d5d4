// Package board implements the per-session card engine: it orchestrates
// the market, news, analyst, and logo providers for every watched ticker,
// consults the session cache, and materializes typed card states.
package board

import (
	"context"
	"time"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/infra/analyst"
	"stockwatch/internal/infra/market"
)

// ChangeClass buckets a price move for display styling.
type ChangeClass string

const (
	ChangePositive ChangeClass = "positive"
	ChangeNegative ChangeClass = "negative"
	ChangeNeutral  ChangeClass = "neutral"
)

// PricePane holds the rendered price and sentiment fields of a card.
// Unavailable marks a degraded pane after a provider failure; an "N/A"
// price with Unavailable false is a valid quote with no price data.
type PricePane struct {
	Price             string             `json:"price"`
	ChangePercent     string             `json:"change_percent"`
	ChangeClass       ChangeClass        `json:"change_class"`
	ChangeGlyph       string             `json:"change_glyph"`
	Sentiment         string             `json:"sentiment"`
	SentimentGlyph    string             `json:"sentiment_glyph"`
	ArticleSentiments []entity.Sentiment `json:"article_sentiments"`
	Unavailable       bool               `json:"unavailable"`
}

// Source is one cited article with its positionally matched sentiment.
type Source struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	Sentiment string `json:"sentiment"`
}

// NewsPane holds the rendered summary and source list of a card.
// NoSources marks the defined empty-news fallback, which is not an error.
type NewsPane struct {
	Summary   string   `json:"summary"`
	Sources   []Source `json:"sources"`
	NoSources bool     `json:"no_sources"`
}

// CardState is the complete rendered state of one ticker's card. It is
// written only by the loader, and only after every sub-fetch for the card
// has settled.
type CardState struct {
	Ticker      entity.Ticker `json:"ticker"`
	CompanyName string        `json:"company_name"`
	LogoURL     string        `json:"logo_url,omitempty"`
	Loading     bool          `json:"loading"`
	Price       PricePane     `json:"price"`
	News        NewsPane      `json:"news"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// MarketData supplies quotes for tickers.
type MarketData interface {
	Quote(ctx context.Context, ticker entity.Ticker) (market.Quote, error)
}

// NewsProvider supplies recent coverage for a company.
type NewsProvider interface {
	Search(ctx context.Context, companyName string, ticker entity.Ticker) ([]entity.Article, error)
}

// LogoResolver maps tickers to logo URLs. An empty URL means no logo.
type LogoResolver interface {
	LogoURL(ticker entity.Ticker) string
}

// Analyst is the AI analysis surface the engine consumes.
type Analyst = analyst.Client
