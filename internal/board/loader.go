package board

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"stockwatch/internal/cache"
	"stockwatch/internal/domain/entity"
	"stockwatch/internal/infra/market"
	"stockwatch/internal/observability/metrics"
)

// noSourcesSummary is rendered when no coverage exists for a ticker.
const noSourcesSummary = "No sources available"

// newsPayload is the combined news and summary unit stored in the cache.
// Raw articles are kept so source sentiments can be re-correlated against
// whatever sentiment list the price pane currently holds.
type newsPayload struct {
	Summary   string           `json:"summary"`
	Articles  []entity.Article `json:"articles"`
	NoSources bool             `json:"no_sources"`
}

// Loader builds one ticker's card state from the providers, consulting and
// populating the session cache. A loader is shared by all cards of a
// session and carries no per-ticker state.
type Loader struct {
	store   cache.Store
	market  MarketData
	news    NewsProvider
	analyst Analyst
}

// NewLoader wires a loader over the given providers and cache store.
func NewLoader(store cache.Store, marketData MarketData, news NewsProvider, an Analyst) *Loader {
	return &Loader{
		store:   store,
		market:  marketData,
		news:    news,
		analyst: an,
	}
}

// LoadCard assembles the full card for one watchlist entry. The price pane
// and the news pane are fetched concurrently and the state is composed only
// after both settle, so callers never observe a half-written card. Provider
// failures degrade the affected pane and are never returned as errors.
func (l *Loader) LoadCard(ctx context.Context, entry entity.WatchlistEntry, force bool) CardState {
	var (
		price PricePane
		news  newsPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		price = l.loadPricePane(gctx, entry, force)
		return nil
	})
	g.Go(func() error {
		news = l.loadNewsPayload(gctx, entry, force)
		return nil
	})
	_ = g.Wait()

	return CardState{
		Ticker:      entry.Ticker,
		CompanyName: entry.CompanyName,
		Price:       price,
		News: NewsPane{
			Summary:   news.Summary,
			Sources:   CorrelateSources(news.Articles, price.ArticleSentiments),
			NoSources: news.NoSources,
		},
		UpdatedAt: time.Now().UTC(),
	}
}

// loadPricePane resolves the quote and overall sentiment for a ticker.
// Cached panes are returned directly unless force is set. Degraded panes
// are never written back to the cache, so the next load retries.
func (l *Loader) loadPricePane(ctx context.Context, entry entity.WatchlistEntry, force bool) PricePane {
	key := cache.Key(entry.Ticker, cache.KindPriceSentiment)

	if !force {
		var pane PricePane
		if cache.GetJSON(l.store, key, &pane) {
			metrics.RecordCacheLookup(string(cache.KindPriceSentiment), true)
			metrics.RecordCardLoad(string(cache.KindPriceSentiment), "hit")
			return pane
		}
		metrics.RecordCacheLookup(string(cache.KindPriceSentiment), false)
	}

	priced := true
	var quote market.Quote
	quote, err := l.market.Quote(ctx, entry.Ticker)
	switch {
	case errors.Is(err, market.ErrNoData):
		// A symbol with no price data is a valid quote, not a failure.
		priced = false
	case err != nil:
		slog.WarnContext(ctx, "quote fetch failed",
			slog.String("ticker", entry.Ticker.String()),
			slog.Any("error", err))
		metrics.RecordCardLoad(string(cache.KindPriceSentiment), "degraded")
		return unavailablePane()
	}

	overall := entity.SentimentNeutral
	var articleSentiments []entity.Sentiment
	cacheable := true

	articles, err := l.news.Search(ctx, entry.CompanyName, entry.Ticker)
	if err != nil {
		slog.WarnContext(ctx, "news fetch for sentiment failed",
			slog.String("ticker", entry.Ticker.String()),
			slog.Any("error", err))
		cacheable = false
	} else if len(articles) > 0 {
		report, err := l.analyst.AnalyzeSentiment(ctx, entry.Ticker, entry.CompanyName, articles)
		if err != nil {
			slog.WarnContext(ctx, "sentiment analysis failed",
				slog.String("ticker", entry.Ticker.String()),
				slog.Any("error", err))
			cacheable = false
		} else {
			overall = report.Overall
			articleSentiments = report.Articles
		}
	}

	pane := quotePane(priced, quote.CurrentPrice, quote.ChangePercent, overall, articleSentiments)

	if cacheable {
		if err := cache.SetJSON(l.store, key, pane); err != nil {
			slog.WarnContext(ctx, "caching price pane failed", slog.Any("error", err))
		}
		metrics.RecordCardLoad(string(cache.KindPriceSentiment), "fetched")
	} else {
		metrics.RecordCardLoad(string(cache.KindPriceSentiment), "degraded")
	}

	return pane
}

// loadNewsPayload resolves the article list and the topical summary as one
// cache unit. A single search feeds both the source pane and the summary
// prompt, so the two can never disagree about coverage. An empty article
// list is the defined no-sources fallback, not an error; a failed fetch
// renders the fallback but is never cached, and a failed summary renders
// its error text and skips the cache.
func (l *Loader) loadNewsPayload(ctx context.Context, entry entity.WatchlistEntry, force bool) newsPayload {
	key := cache.Key(entry.Ticker, cache.KindNews)

	if !force {
		var payload newsPayload
		if cache.GetJSON(l.store, key, &payload) {
			metrics.RecordCacheLookup(string(cache.KindNews), true)
			metrics.RecordCardLoad(string(cache.KindNews), "hit")
			return payload
		}
		metrics.RecordCacheLookup(string(cache.KindNews), false)
	}

	articles, err := l.news.Search(ctx, entry.CompanyName, entry.Ticker)
	if err != nil {
		slog.WarnContext(ctx, "news fetch failed",
			slog.String("ticker", entry.Ticker.String()),
			slog.Any("error", err))
		metrics.RecordCardLoad(string(cache.KindNews), "degraded")
		return newsPayload{Summary: noSourcesSummary, NoSources: true}
	}

	var (
		summary    string
		summaryErr error
	)
	if len(articles) > 0 {
		raw, err := l.analyst.SummarizeNews(ctx, entry.Ticker, entry.CompanyName, articles)
		if err != nil {
			summaryErr = err
		} else {
			summary = NormalizeSummary(raw)
		}
	}

	payload := newsPayload{Summary: summary, Articles: articles}

	cacheable := true
	switch {
	case summaryErr != nil:
		// Error text is rendered in place of the summary, but the entry is
		// not cached so the next load retries.
		payload.Summary = summaryErr.Error()
		cacheable = false
	case len(articles) == 0:
		payload.NoSources = true
		payload.Summary = noSourcesSummary
	}

	if cacheable {
		if err := cache.SetJSON(l.store, key, payload); err != nil {
			slog.WarnContext(ctx, "caching news payload failed", slog.Any("error", err))
		}
		metrics.RecordCardLoad(string(cache.KindNews), "fetched")
	} else {
		metrics.RecordCardLoad(string(cache.KindNews), "degraded")
	}

	return payload
}
