// Package watchlist serves the watchlist CRUD and card-order endpoints.
package watchlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/handler/http/auth"
	"stockwatch/internal/handler/http/pathutil"
	"stockwatch/internal/handler/http/respond"
	"stockwatch/internal/usecase/watchlist"
)

// Handler exposes the watchlist use cases over HTTP.
type Handler struct {
	service *watchlist.Service
}

// NewHandler returns a Handler backed by service.
func NewHandler(service *watchlist.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the watchlist endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /watchlist", h.List)
	mux.HandleFunc("POST /add_stock", h.Add)
	mux.HandleFunc("POST /remove_stock/{ticker}", h.Remove)
	mux.HandleFunc("GET /api/stock_order", h.GetOrder)
	mux.HandleFunc("PUT /api/stock_order", h.SetOrder)
}

type entryJSON struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	DateAdded   string `json:"date_added"`
}

type listResponse struct {
	Stocks []entryJSON `json:"stocks"`
}

// List returns the caller's entries arranged by their saved card order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	entries, err := h.service.List(r.Context(), id.UserID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to load watchlist")
		return
	}

	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{
			Ticker:      e.Ticker.String(),
			CompanyName: e.CompanyName,
			DateAdded:   e.DateAdded.UTC().Format("2006-01-02"),
		}
	}
	respond.JSON(w, http.StatusOK, listResponse{Stocks: out})
}

type addRequest struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
}

// Add puts a ticker on the watchlist. Adding a ticker that is already
// watched succeeds and returns the existing entry.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.Add(r.Context(), id.UserID, req.Ticker, req.CompanyName)
	if err != nil {
		var verr *entity.ValidationError
		switch {
		case errors.Is(err, entity.ErrInvalidTicker):
			respond.Error(w, http.StatusBadRequest, "invalid or unknown ticker")
		case errors.As(err, &verr):
			respond.Error(w, http.StatusBadRequest, verr.Error())
		default:
			respond.SafeError(w, http.StatusInternalServerError, err, "failed to add stock")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, entryJSON{
		Ticker:      entry.Ticker.String(),
		CompanyName: entry.CompanyName,
		DateAdded:   entry.DateAdded.UTC().Format("2006-01-02"),
	})
}

// Remove drops a ticker from the watchlist and prunes it from the saved
// card order.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	ticker, err := pathutil.ExtractTicker(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid ticker")
		return
	}

	if err := h.service.Remove(r.Context(), id.UserID, ticker.String()); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "stock not in watchlist")
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to remove stock")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"removed": ticker.String()})
}

type orderResponse struct {
	Order []string `json:"order"`
}

// GetOrder returns the saved card order reconciled against current
// membership.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	order, err := h.service.Order(r.Context(), id.UserID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to load stock order")
		return
	}
	respond.JSON(w, http.StatusOK, orderResponse{Order: tickerStrings(order)})
}

type setOrderRequest struct {
	Order []string `json:"order"`
}

// SetOrder saves a new card order. The submitted list is reconciled
// against the watchlist before the single write, and the stored result
// is returned.
func (h *Handler) SetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req setOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.SetOrder(r.Context(), id.UserID, req.Order)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidTicker) {
			respond.Error(w, http.StatusBadRequest, "order contains an invalid ticker")
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to save stock order")
		return
	}
	respond.JSON(w, http.StatusOK, orderResponse{Order: tickerStrings(order)})
}

func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return auth.Identity{}, false
	}
	return id, true
}

func tickerStrings(order []entity.Ticker) []string {
	out := make([]string, len(order))
	for i, t := range order {
		out[i] = t.String()
	}
	return out
}
