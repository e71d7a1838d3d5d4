package watchlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/handler/http/auth"
	"stockwatch/internal/infra/market"
	"stockwatch/internal/usecase/watchlist"
)

type fakeRepo struct {
	entries []*entity.WatchlistEntry
	nextID  int64
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]*entity.WatchlistEntry, error) {
	var out []*entity.WatchlistEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, userID int64, ticker entity.Ticker) (*entity.WatchlistEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Ticker == ticker {
			return e, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (f *fakeRepo) Add(_ context.Context, entry *entity.WatchlistEntry) error {
	for _, e := range f.entries {
		if e.UserID == entry.UserID && e.Ticker == entry.Ticker {
			return entity.ErrAlreadyExists
		}
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) Remove(_ context.Context, userID int64, ticker entity.Ticker) error {
	for i, e := range f.entries {
		if e.UserID == userID && e.Ticker == ticker {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (f *fakeRepo) ListAllTickers(context.Context) ([]entity.Ticker, error) { return nil, nil }

type fakeOrders struct {
	orders map[int64][]entity.Ticker
}

func (f *fakeOrders) Load(_ context.Context, userID int64) ([]entity.Ticker, error) {
	return f.orders[userID], nil
}

func (f *fakeOrders) Save(_ context.Context, userID int64, order []entity.Ticker) error {
	f.orders[userID] = order
	return nil
}

type fakeQuotes struct{}

func (fakeQuotes) Quote(_ context.Context, t entity.Ticker) (market.Quote, error) {
	names := map[entity.Ticker]string{"AAPL": "Apple Inc.", "MSFT": "Microsoft", "GOOG": "Alphabet"}
	name, ok := names[t]
	if !ok {
		return market.Quote{}, market.ErrUnknownSymbol
	}
	return market.Quote{Ticker: t, CompanyName: name, CurrentPrice: 100, ChangePercent: 0.5}, nil
}

func newTestHandler() (*Handler, *fakeRepo, *fakeOrders) {
	repo := &fakeRepo{entries: []*entity.WatchlistEntry{
		{ID: 1, UserID: 7, Ticker: "AAPL", CompanyName: "Apple Inc.", DateAdded: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, UserID: 7, Ticker: "MSFT", CompanyName: "Microsoft", DateAdded: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
	}, nextID: 2}
	orders := &fakeOrders{orders: map[int64][]entity.Ticker{}}
	svc := &watchlist.Service{Repo: repo, Orders: orders, Market: fakeQuotes{}}
	return NewHandler(svc), repo, orders
}

func authed(req *http.Request) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(),
		auth.Identity{UserID: 7, Username: "alice", SessionID: "s1"}))
}

func TestHandler_List(t *testing.T) {
	h, _, orders := newTestHandler()
	orders.orders[7] = []entity.Ticker{"MSFT", "AAPL"}

	req := authed(httptest.NewRequest(http.MethodGet, "/watchlist", nil))
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Stocks, 2)
	assert.Equal(t, "MSFT", resp.Stocks[0].Ticker)
	assert.Equal(t, "AAPL", resp.Stocks[1].Ticker)
	assert.Equal(t, "2026-08-01", resp.Stocks[1].DateAdded)
}

func TestHandler_Add(t *testing.T) {
	t.Run("autofills company name", func(t *testing.T) {
		h, repo, _ := newTestHandler()
		req := authed(httptest.NewRequest(http.MethodPost, "/add_stock",
			strings.NewReader(`{"ticker":"goog"}`)))
		rec := httptest.NewRecorder()
		h.Add(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alphabet")
		assert.Len(t, repo.entries, 3)
	})

	t.Run("duplicate succeeds with existing entry", func(t *testing.T) {
		h, repo, _ := newTestHandler()
		req := authed(httptest.NewRequest(http.MethodPost, "/add_stock",
			strings.NewReader(`{"ticker":"AAPL"}`)))
		rec := httptest.NewRecorder()
		h.Add(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, repo.entries, 2)
	})

	t.Run("unknown symbol rejected", func(t *testing.T) {
		h, _, _ := newTestHandler()
		req := authed(httptest.NewRequest(http.MethodPost, "/add_stock",
			strings.NewReader(`{"ticker":"ZZZZ"}`)))
		rec := httptest.NewRecorder()
		h.Add(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Remove(t *testing.T) {
	h, repo, orders := newTestHandler()
	orders.orders[7] = []entity.Ticker{"MSFT", "AAPL"}

	req := authed(httptest.NewRequest(http.MethodPost, "/remove_stock/AAPL", nil))
	req.SetPathValue("ticker", "AAPL")
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, repo.entries, 1)
	assert.Equal(t, []entity.Ticker{"MSFT"}, orders.orders[7])

	t.Run("missing ticker is 404", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPost, "/remove_stock/GOOG", nil))
		req.SetPathValue("ticker", "GOOG")
		rec := httptest.NewRecorder()
		h.Remove(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Order(t *testing.T) {
	t.Run("set order reconciles against membership", func(t *testing.T) {
		h, _, orders := newTestHandler()
		req := authed(httptest.NewRequest(http.MethodPut, "/api/stock_order",
			strings.NewReader(`{"order":["MSFT","GOOG","AAPL"]}`)))
		rec := httptest.NewRecorder()
		h.SetOrder(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"MSFT", "AAPL"}, resp.Order)
		assert.Equal(t, []entity.Ticker{"MSFT", "AAPL"}, orders.orders[7])
	})

	t.Run("get order appends unsaved tickers", func(t *testing.T) {
		h, _, orders := newTestHandler()
		orders.orders[7] = []entity.Ticker{"MSFT"}
		req := authed(httptest.NewRequest(http.MethodGet, "/api/stock_order", nil))
		rec := httptest.NewRecorder()
		h.GetOrder(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"MSFT", "AAPL"}, resp.Order)
	})

	t.Run("unauthenticated rejected", func(t *testing.T) {
		h, _, _ := newTestHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/stock_order", nil)
		rec := httptest.NewRecorder()
		h.GetOrder(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
