// Package stock serves the per-ticker data endpoints: price, news,
// sentiment, AI summaries and company logos.
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"stockwatch/internal/board"
	"stockwatch/internal/domain/entity"
	"stockwatch/internal/handler/http/auth"
	"stockwatch/internal/handler/http/pathutil"
	"stockwatch/internal/handler/http/respond"
	"stockwatch/internal/infra/analyst"
	"stockwatch/internal/infra/market"
	"stockwatch/internal/repository"
	"stockwatch/internal/usecase/digest"
)

// MarketData fetches current quotes.
type MarketData interface {
	Quote(ctx context.Context, ticker entity.Ticker) (market.Quote, error)
}

// NewsProvider searches recent articles for a company.
type NewsProvider interface {
	Search(ctx context.Context, companyName string, ticker entity.Ticker) ([]entity.Article, error)
}

// LogoResolver maps tickers to logo URLs.
type LogoResolver interface {
	LogoURL(ticker entity.Ticker) string
}

// Handler implements the /api/* data endpoints.
type Handler struct {
	market  MarketData
	news    NewsProvider
	analyst analyst.Client
	logo    LogoResolver
	watch   repository.WatchlistRepository
	digests *digest.Service
}

// NewHandler wires the data endpoints to their providers.
func NewHandler(
	md MarketData,
	news NewsProvider,
	an analyst.Client,
	logo LogoResolver,
	watch repository.WatchlistRepository,
	digests *digest.Service,
) *Handler {
	return &Handler{market: md, news: news, analyst: an, logo: logo, watch: watch, digests: digests}
}

// Register mounts the data endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/company_logo/{ticker}", h.CompanyLogo)
	mux.HandleFunc("GET /api/stock_price/{ticker}", h.Price)
	mux.HandleFunc("GET /api/stock_news/{ticker}", h.News)
	mux.HandleFunc("GET /api/stock_summary/{ticker}", h.Summary)
	mux.HandleFunc("GET /api/stock_sentiment/{ticker}", h.Sentiment)
	mux.HandleFunc("GET /api/stock_daily_summary/{ticker}", h.DailySummary)
	mux.HandleFunc("GET /api/stock_article_summaries/{ticker}", h.ArticleSummaries)
	mux.HandleFunc("POST /api/stock_article_detail", h.ArticleDetail)
}

type logoResponse struct {
	LogoURL *string `json:"logo_url"`
}

// CompanyLogo returns the CDN logo URL for known tickers, null otherwise.
func (h *Handler) CompanyLogo(w http.ResponseWriter, r *http.Request) {
	ticker, err := pathutil.ExtractTicker(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid ticker")
		return
	}
	url := h.logo.LogoURL(ticker)
	if url == "" {
		respond.JSON(w, http.StatusOK, logoResponse{})
		return
	}
	respond.JSON(w, http.StatusOK, logoResponse{LogoURL: &url})
}

type priceResponse struct {
	Ticker        string  `json:"ticker"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
}

// Price returns the current price and daily change for a ticker.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	ticker, err := pathutil.ExtractTicker(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid ticker")
		return
	}

	quote, err := h.market.Quote(r.Context(), ticker)
	switch {
	case errors.Is(err, market.ErrNoData):
		respond.Error(w, http.StatusTooManyRequests, "rate limited, retry shortly")
		return
	case errors.Is(err, market.ErrUnknownSymbol):
		respond.Error(w, http.StatusNotFound, "unknown ticker")
		return
	case err != nil:
		respond.SafeError(w, http.StatusInternalServerError, err, "market data unavailable")
		return
	}

	respond.JSON(w, http.StatusOK, priceResponse{
		Ticker:        ticker.String(),
		CurrentPrice:  quote.CurrentPrice,
		ChangePercent: quote.ChangePercent,
	})
}

type articleJSON struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Image       *string `json:"image"`
	Published   string  `json:"published,omitempty"`
}

type newsResponse struct {
	Ticker      string        `json:"ticker"`
	CompanyName string        `json:"company_name"`
	Articles    []articleJSON `json:"articles"`
}

// News returns up to five recent articles for a watched ticker. Tickers
// not on the caller's watchlist get 404.
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	ticker, entry, ok := h.watchedTicker(w, r)
	if !ok {
		return
	}

	articles, err := h.news.Search(r.Context(), entry.CompanyName, ticker)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to fetch news")
		return
	}

	respond.JSON(w, http.StatusOK, newsResponse{
		Ticker:      ticker.String(),
		CompanyName: entry.CompanyName,
		Articles:    toArticleJSON(articles),
	})
}

type summaryResponse struct {
	Ticker       string `json:"ticker,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	Summary      string `json:"summary"`
	ArticleCount int    `json:"article_count,omitempty"`
}

const noNewsSummary = "No recent news available for this stock."

// Summary returns the AI topic summary of the ticker's recent news.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ticker, entry, ok := h.watchedTicker(w, r)
	if !ok {
		return
	}

	articles, err := h.news.Search(r.Context(), entry.CompanyName, ticker)
	if err != nil || len(articles) == 0 {
		respond.JSON(w, http.StatusOK, summaryResponse{Summary: noNewsSummary})
		return
	}

	summary, err := h.analyst.SummarizeNews(r.Context(), ticker, entry.CompanyName, articles)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to generate summary")
		return
	}

	respond.JSON(w, http.StatusOK, summaryResponse{
		Ticker:       ticker.String(),
		CompanyName:  entry.CompanyName,
		Summary:      board.NormalizeSummary(summary),
		ArticleCount: len(articles),
	})
}

type sentimentResponse struct {
	Ticker            string   `json:"ticker,omitempty"`
	CompanyName       string   `json:"company_name,omitempty"`
	Sentiment         string   `json:"sentiment"`
	ArticleSentiments []string `json:"article_sentiments"`
	PriceChange       float64  `json:"price_change"`
	CurrentPrice      any      `json:"current_price"`
	ArticleCount      int      `json:"article_count,omitempty"`
}

// Sentiment combines price movement and headline analysis. With no news
// the sign of the daily change stands in; with no data at all everything
// is neutral and the price reads "N/A".
func (h *Handler) Sentiment(w http.ResponseWriter, r *http.Request) {
	ticker, entry, ok := h.watchedTicker(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	quote, quoteErr := h.market.Quote(ctx, ticker)
	articles, newsErr := h.news.Search(ctx, entry.CompanyName, ticker)

	if newsErr != nil || len(articles) == 0 {
		if quoteErr != nil {
			respond.JSON(w, http.StatusOK, sentimentResponse{
				Sentiment:         "neutral",
				ArticleSentiments: []string{},
				PriceChange:       0,
				CurrentPrice:      "N/A",
			})
			return
		}
		respond.JSON(w, http.StatusOK, sentimentResponse{
			Sentiment:         entity.SentimentFromChange(quote.ChangePercent).String(),
			ArticleSentiments: []string{},
			PriceChange:       quote.ChangePercent,
			CurrentPrice:      quote.CurrentPrice,
		})
		return
	}

	priceChange := 0.0
	var currentPrice any = "N/A"
	if quoteErr == nil {
		priceChange = quote.ChangePercent
		currentPrice = quote.CurrentPrice
	}

	report, err := h.analyst.AnalyzeSentiment(ctx, ticker, entry.CompanyName, articles)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to generate sentiment analysis")
		return
	}

	sentiments := make([]string, len(articles))
	for i := range sentiments {
		sentiments[i] = entity.SentimentNeutral.String()
	}
	for i, s := range report.Articles {
		if i < len(sentiments) {
			sentiments[i] = s.String()
		}
	}

	respond.JSON(w, http.StatusOK, sentimentResponse{
		Ticker:            ticker.String(),
		CompanyName:       entry.CompanyName,
		Sentiment:         report.Overall.String(),
		ArticleSentiments: sentiments,
		PriceChange:       priceChange,
		CurrentPrice:      currentPrice,
		ArticleCount:      len(articles),
	})
}

type dailySummaryResponse struct {
	DailySummary string `json:"daily_summary,omitempty"`
}

// DailySummary returns the worker-maintained digest, or an empty object
// when none has been computed yet.
func (h *Handler) DailySummary(w http.ResponseWriter, r *http.Request) {
	ticker, _, ok := h.watchedTicker(w, r)
	if !ok {
		return
	}

	d, err := h.digests.Latest(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.JSON(w, http.StatusOK, dailySummaryResponse{})
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to load daily summary")
		return
	}
	respond.JSON(w, http.StatusOK, dailySummaryResponse{DailySummary: d.Summary})
}

type articleSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Headline    string `json:"headline"`
}

type articleSummariesResponse struct {
	Summaries []articleSummary `json:"summaries"`
}

// ArticleSummaries produces a one-line headline for each recent article
// in a single batched AI call.
func (h *Handler) ArticleSummaries(w http.ResponseWriter, r *http.Request) {
	ticker, entry, ok := h.watchedTicker(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	articles, err := h.news.Search(ctx, entry.CompanyName, ticker)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to fetch news")
		return
	}
	if len(articles) == 0 {
		respond.JSON(w, http.StatusOK, articleSummariesResponse{Summaries: []articleSummary{}})
		return
	}

	headlines, err := h.analyst.SummarizeHeadlines(ctx, articles)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to summarize articles")
		return
	}

	out := make([]articleSummary, len(articles))
	for i, a := range articles {
		headline := a.Title
		if i < len(headlines) && headlines[i] != "" {
			headline = headlines[i]
		}
		out[i] = articleSummary{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source,
			Headline:    headline,
		}
	}
	respond.JSON(w, http.StatusOK, articleSummariesResponse{Summaries: out})
}

type articleDetailRequest struct {
	Ticker      string  `json:"ticker"`
	CompanyName string  `json:"company_name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PriceChange float64 `json:"price_change"`
}

type articleDetailResponse struct {
	Detail string `json:"detail"`
}

// ArticleDetail expands a single article into a few explanatory
// sentences.
func (h *Handler) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	var req articleDetailRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := entity.ParseTicker(req.Ticker); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid ticker")
		return
	}
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	detail, err := h.analyst.ExpandArticle(r.Context(), entity.Article{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to expand article")
		return
	}
	respond.JSON(w, http.StatusOK, articleDetailResponse{Detail: detail})
}

// watchedTicker parses the ticker path value and checks it is on the
// caller's watchlist, writing the error response itself when not.
func (h *Handler) watchedTicker(w http.ResponseWriter, r *http.Request) (entity.Ticker, *entity.WatchlistEntry, bool) {
	ticker, err := pathutil.ExtractTicker(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid ticker")
		return "", nil, false
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return "", nil, false
	}
	entry, err := h.watch.Get(r.Context(), id.UserID, ticker)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "stock not in watchlist")
			return "", nil, false
		}
		respond.SafeError(w, http.StatusInternalServerError, err, "watchlist lookup failed")
		return "", nil, false
	}
	return ticker, entry, true
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func toArticleJSON(articles []entity.Article) []articleJSON {
	out := make([]articleJSON, len(articles))
	for i, a := range articles {
		out[i] = articleJSON{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source,
		}
		if a.Image != "" {
			img := a.Image
			out[i].Image = &img
		}
		if !a.PublishedAt.IsZero() {
			out[i].Published = a.PublishedAt.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
		}
	}
	return out
}
