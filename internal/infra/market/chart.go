// Package market provides the stock quote provider implementation.
// It consumes a chart-style quote HTTP API and normalizes responses into
// current price and daily change percent, with retry and circuit breaker
// protection against the provider's aggressive rate limiting.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/observability/metrics"
	"stockwatch/internal/resilience/circuitbreaker"
	"stockwatch/internal/resilience/retry"
	"stockwatch/pkg/config"
)

// ErrNoData indicates the provider returned an empty history for the symbol.
// The original upstream behaves this way when rate limited, so callers map
// it to a retry-later response rather than a hard failure.
var ErrNoData = errors.New("no quote data available")

// ErrUnknownSymbol indicates the provider does not recognize the symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Quote is the normalized quote for one ticker.
type Quote struct {
	Ticker        entity.Ticker
	CompanyName   string
	CurrentPrice  float64
	ChangePercent float64
}

// ChartClient fetches quotes from a chart-style HTTP API
// (GET {base}/v8/finance/chart/{symbol}?range=5d&interval=1d).
type ChartClient struct {
	baseURL        string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewChartClient creates a quote client. The base URL is read from
// CHART_API_URL; the default points at the public chart endpoint.
func NewChartClient(client *http.Client) *ChartClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ChartClient{
		baseURL:        config.GetEnvString("CHART_API_URL", "https://query1.finance.yahoo.com"),
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.MarketDataConfig()),
		retryConfig:    retry.MarketDataConfig(),
	}
}

// chartResponse mirrors the provider's wire format; only the fields the
// normalization needs are decoded.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				LongName           string  `json:"longName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote fetches and normalizes the current quote for a ticker.
// The daily change is computed from the last two closes; with a single
// trading day of data the change is zero. Prices are rounded to cents.
func (c *ChartClient) Quote(ctx context.Context, ticker entity.Ticker) (Quote, error) {
	var quote *Quote

	start := time.Now()
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doQuote(ctx, ticker)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("quote circuit breaker open, request rejected",
					slog.String("service", "market-data"),
					slog.String("ticker", ticker.String()),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("quote provider unavailable: circuit breaker open")
			}
			return err
		}
		quote = cbResult.(*Quote)
		return nil
	})
	metrics.RecordProviderRequest("market", retryErr, time.Since(start))

	if retryErr != nil {
		return Quote{}, retryErr
	}
	return *quote, nil
}

// doQuote performs the actual API call without retry or circuit breaker.
func (c *ChartClient) doQuote(ctx context.Context, ticker entity.Ticker) (*Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=1d", c.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("User-Agent", "stockwatch/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: "quote provider"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read quote response: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, ErrNoData
	}

	meta := parsed.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 && meta.PreviousClose == 0 {
		return nil, ErrNoData
	}

	current, previous := closesFromResult(parsed, meta.RegularMarketPrice, meta.PreviousClose)

	change := 0.0
	if previous != 0 && current != previous {
		change = (current - previous) / previous * 100
	}

	name := meta.LongName
	if name == "" {
		name = ticker.String()
	}

	return &Quote{
		Ticker:        ticker,
		CompanyName:   name,
		CurrentPrice:  round2(current),
		ChangePercent: round2(change),
	}, nil
}

// closesFromResult prefers the last two non-nil daily closes; the meta
// fields are the fallback when the close series is missing or sparse.
func closesFromResult(parsed chartResponse, metaCurrent, metaPrevious float64) (current, previous float64) {
	current, previous = metaCurrent, metaPrevious

	quotes := parsed.Chart.Result[0].Indicators.Quote
	if len(quotes) == 0 {
		return current, previous
	}

	closes := make([]float64, 0, len(quotes[0].Close))
	for _, c := range quotes[0].Close {
		if c != nil {
			closes = append(closes, *c)
		}
	}
	if n := len(closes); n >= 2 {
		current, previous = closes[n-1], closes[n-2]
	} else if n == 1 {
		current = closes[0]
	}
	return current, previous
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
