package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ChartClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewChartClient(server.Client())
	c.baseURL = server.URL
	// Single attempt keeps failure tests fast.
	c.retryConfig.MaxAttempts = 1
	return c
}

func TestQuote_Normalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {
						"symbol": "AAPL",
						"longName": "Apple Inc.",
						"regularMarketPrice": 150.2,
						"chartPreviousClose": 148.0
					},
					"indicators": {"quote": [{"close": [147.1, 148.0, 150.2]}]}
				}],
				"error": null
			}
		}`))
	})

	quote, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote err=%v", err)
	}
	if quote.CompanyName != "Apple Inc." {
		t.Errorf("CompanyName = %q", quote.CompanyName)
	}
	if quote.CurrentPrice != 150.2 {
		t.Errorf("CurrentPrice = %v, want 150.2", quote.CurrentPrice)
	}
	// (150.2-148.0)/148.0*100 = 1.486... rounded to 1.49
	if quote.ChangePercent != 1.49 {
		t.Errorf("ChangePercent = %v, want 1.49", quote.ChangePercent)
	}
}

func TestQuote_SingleTradingDay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"symbol": "IPO", "regularMarketPrice": 42.0, "chartPreviousClose": 42.0},
					"indicators": {"quote": [{"close": [42.0]}]}
				}]
			}
		}`))
	})

	quote, err := c.Quote(context.Background(), "IPO")
	if err != nil {
		t.Fatalf("Quote err=%v", err)
	}
	if quote.ChangePercent != 0 {
		t.Errorf("ChangePercent = %v, want 0 for a single trading day", quote.ChangePercent)
	}
}

func TestQuote_EmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart": {"result": []}}`))
	})

	_, err := c.Quote(context.Background(), "AAPL")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestQuote_UnknownSymbol(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Quote(context.Background(), "NOPE")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestQuote_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}
		}`))
	})

	_, err := c.Quote(context.Background(), "XXXX")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}
