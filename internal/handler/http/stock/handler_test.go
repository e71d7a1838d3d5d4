package stock

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
	"stockwatch/internal/infra/analyst"
	"stockwatch/internal/infra/market"
	"stockwatch/internal/repository"
	"stockwatch/internal/usecase/digest"
)

type fakeMarket struct {
	quotes map[entity.Ticker]market.Quote
	errs   map[entity.Ticker]error
}

func (f *fakeMarket) Quote(_ context.Context, t entity.Ticker) (market.Quote, error) {
	if err := f.errs[t]; err != nil {
		return market.Quote{}, err
	}
	if q, ok := f.quotes[t]; ok {
		return q, nil
	}
	return market.Quote{}, market.ErrNoData
}

type fakeNews struct {
	articles map[entity.Ticker][]entity.Article
	err      error
}

func (f *fakeNews) Search(_ context.Context, _ string, t entity.Ticker) ([]entity.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles[t], nil
}

type fakeLogo struct{}

func (fakeLogo) LogoURL(t entity.Ticker) string {
	if t == "AAPL" {
		return "https://cdn.example.com/apple.com/w/100/h/100"
	}
	return ""
}

type fakeWatch struct {
	entries map[entity.Ticker]*entity.WatchlistEntry
}

func (f *fakeWatch) ListByUser(context.Context, int64) ([]*entity.WatchlistEntry, error) {
	return nil, nil
}

func (f *fakeWatch) Get(_ context.Context, _ int64, t entity.Ticker) (*entity.WatchlistEntry, error) {
	if e, ok := f.entries[t]; ok {
		return e, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeWatch) Add(context.Context, *entity.WatchlistEntry) error { return nil }

func (f *fakeWatch) Remove(context.Context, int64, entity.Ticker) error { return nil }

func (f *fakeWatch) ListAllTickers(context.Context) ([]entity.Ticker, error) { return nil, nil }

var _ repository.WatchlistRepository = (*fakeWatch)(nil)

type fakeDigests struct {
	digests map[entity.Ticker]*entity.DailyDigest
}

func (f *fakeDigests) Get(_ context.Context, t entity.Ticker) (*entity.DailyDigest, error) {
	if d, ok := f.digests[t]; ok {
		return d, nil
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDigests) Upsert(context.Context, *entity.DailyDigest) error { return nil }

func threeArticles() []entity.Article {
	return []entity.Article{
		{Title: "Apple beats estimates", Description: "Strong quarter.", URL: "https://example.com/1", Source: "Reuters"},
		{Title: "iPhone demand surges", Description: "Upgrades ahead.", URL: "https://example.com/2", Source: "Bloomberg"},
		{Title: "Services growth slows", Description: "Mixed signals.", URL: "https://example.com/3", Source: "WSJ"},
	}
}

type testEnv struct {
	handler *Handler
	market  *fakeMarket
	news    *fakeNews
	digests *fakeDigests
}

func newTestEnv() *testEnv {
	md := &fakeMarket{
		quotes: map[entity.Ticker]market.Quote{
			"AAPL": {Ticker: "AAPL", CompanyName: "Apple Inc.", CurrentPrice: 150.20, ChangePercent: 1.49},
		},
		errs: map[entity.Ticker]error{},
	}
	news := &fakeNews{articles: map[entity.Ticker][]entity.Article{"AAPL": threeArticles()}}
	watch := &fakeWatch{entries: map[entity.Ticker]*entity.WatchlistEntry{
		"AAPL": {ID: 1, UserID: 7, Ticker: "AAPL", CompanyName: "Apple Inc.", DateAdded: time.Now()},
		"MSFT": {ID: 2, UserID: 7, Ticker: "MSFT", CompanyName: "Microsoft", DateAdded: time.Now()},
	}}
	digests := &fakeDigests{digests: map[entity.Ticker]*entity.DailyDigest{
		"AAPL": {Ticker: "AAPL", Summary: "Apple had a busy day.", GeneratedAt: time.Now()},
	}}
	svc := &digest.Service{Digests: digests}
	return &testEnv{
		handler: NewHandler(md, news, analyst.NewNoOp(), fakeLogo{}, watch, svc),
		market:  md,
		news:    news,
		digests: digests,
	}
}

func doGet(t *testing.T, fn http.HandlerFunc, path, ticker string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.SetPathValue("ticker", ticker)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 7, Username: "alice", SessionID: "s1"}))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestHandler_CompanyLogo(t *testing.T) {
	env := newTestEnv()

	t.Run("known ticker", func(t *testing.T) {
		rec := doGet(t, env.handler.CompanyLogo, "/api/company_logo/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "apple.com")
	})

	t.Run("unknown ticker yields null", func(t *testing.T) {
		rec := doGet(t, env.handler.CompanyLogo, "/api/company_logo/ZZZZ", "ZZZZ")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"logo_url":null}`, rec.Body.String())
	})
}

func TestHandler_Price(t *testing.T) {
	env := newTestEnv()

	t.Run("returns quote", func(t *testing.T) {
		rec := doGet(t, env.handler.Price, "/api/stock_price/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp priceResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "AAPL", resp.Ticker)
		assert.InDelta(t, 150.20, resp.CurrentPrice, 0.001)
		assert.InDelta(t, 1.49, resp.ChangePercent, 0.001)
	})

	t.Run("no data maps to 429", func(t *testing.T) {
		rec := doGet(t, env.handler.Price, "/api/stock_price/MSFT", "MSFT")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("invalid ticker", func(t *testing.T) {
		rec := doGet(t, env.handler.Price, "/api/stock_price/!!", "!!")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_News(t *testing.T) {
	env := newTestEnv()

	t.Run("watched ticker returns articles", func(t *testing.T) {
		rec := doGet(t, env.handler.News, "/api/stock_news/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp newsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Apple Inc.", resp.CompanyName)
		require.Len(t, resp.Articles, 3)
		assert.Equal(t, "Apple beats estimates", resp.Articles[0].Title)
		assert.Nil(t, resp.Articles[0].Image)
	})

	t.Run("unwatched ticker is 404", func(t *testing.T) {
		rec := doGet(t, env.handler.News, "/api/stock_news/GOOG", "GOOG")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Summary(t *testing.T) {
	env := newTestEnv()

	t.Run("summarizes articles", func(t *testing.T) {
		rec := doGet(t, env.handler.Summary, "/api/stock_summary/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp summaryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Summary, "Apple beats estimates")
		assert.Equal(t, 3, resp.ArticleCount)
	})

	t.Run("no articles falls back", func(t *testing.T) {
		rec := doGet(t, env.handler.Summary, "/api/stock_summary/MSFT", "MSFT")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No recent news available")
	})
}

func TestHandler_Sentiment(t *testing.T) {
	t.Run("news and price", func(t *testing.T) {
		env := newTestEnv()
		rec := doGet(t, env.handler.Sentiment, "/api/stock_sentiment/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp sentimentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "neutral", resp.Sentiment)
		assert.Equal(t, []string{"neutral", "neutral", "neutral"}, resp.ArticleSentiments)
		assert.InDelta(t, 1.49, resp.PriceChange, 0.001)
	})

	t.Run("price only derives sentiment from change sign", func(t *testing.T) {
		env := newTestEnv()
		env.news.articles = map[entity.Ticker][]entity.Article{}
		rec := doGet(t, env.handler.Sentiment, "/api/stock_sentiment/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp sentimentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "bullish", resp.Sentiment)
		assert.Empty(t, resp.ArticleSentiments)
	})

	t.Run("nothing available is all neutral", func(t *testing.T) {
		env := newTestEnv()
		env.news.articles = map[entity.Ticker][]entity.Article{}
		env.market.quotes = map[entity.Ticker]market.Quote{}
		rec := doGet(t, env.handler.Sentiment, "/api/stock_sentiment/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Equal(t, "neutral", raw["sentiment"])
		assert.Equal(t, "N/A", raw["current_price"])
	})
}

func TestHandler_DailySummary(t *testing.T) {
	env := newTestEnv()

	t.Run("returns stored digest", func(t *testing.T) {
		rec := doGet(t, env.handler.DailySummary, "/api/stock_daily_summary/AAPL", "AAPL")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Apple had a busy day.")
	})

	t.Run("none computed yet yields empty object", func(t *testing.T) {
		rec := doGet(t, env.handler.DailySummary, "/api/stock_daily_summary/MSFT", "MSFT")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{}`, rec.Body.String())
	})
}

func TestHandler_ArticleSummaries(t *testing.T) {
	env := newTestEnv()

	rec := doGet(t, env.handler.ArticleSummaries, "/api/stock_article_summaries/AAPL", "AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp articleSummariesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Summaries, 3)
	assert.Equal(t, "Apple beats estimates", resp.Summaries[0].Headline)
	assert.Equal(t, "https://example.com/2", resp.Summaries[1].URL)
}

func TestHandler_ArticleDetail(t *testing.T) {
	env := newTestEnv()

	t.Run("expands article", func(t *testing.T) {
		body := `{"ticker":"AAPL","company_name":"Apple Inc.","title":"Apple beats estimates","description":"Strong quarter.","price_change":1.49}`
		req := httptest.NewRequest(http.MethodPost, "/api/stock_article_detail", strings.NewReader(body))
		rec := httptest.NewRecorder()
		env.handler.ArticleDetail(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Strong quarter.")
	})

	t.Run("missing title rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/stock_article_detail",
			strings.NewReader(`{"ticker":"AAPL"}`))
		rec := httptest.NewRecorder()
		env.handler.ArticleDetail(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
