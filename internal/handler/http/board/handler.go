// Package board serves the card-orchestration endpoints: refreshing a
// session's board and reading its current snapshot.
package board

import (
	"net/http"
	"strconv"

	boardengine "stockwatch/internal/board"
	"stockwatch/internal/domain/entity"
	"stockwatch/internal/handler/http/auth"
	"stockwatch/internal/handler/http/respond"
	"stockwatch/internal/usecase/watchlist"
)

// Handler drives per-session boards. Boards are keyed by the session ID
// minted at login, so two browser tabs with separate tokens get
// independent caches.
type Handler struct {
	boards    *boardengine.Manager
	watchlist *watchlist.Service
}

// NewHandler returns a Handler over the board manager.
func NewHandler(boards *boardengine.Manager, wl *watchlist.Service) *Handler {
	return &Handler{boards: boards, watchlist: wl}
}

// Register mounts the board endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/board/refresh", h.Refresh)
	mux.HandleFunc("GET /api/board", h.Snapshot)
	mux.HandleFunc("DELETE /api/board", h.Close)
}

type boardResponse struct {
	Cards []boardengine.CardState `json:"cards"`
}

// Refresh loads every card on the caller's board and returns the settled
// states. `?force=true` clears the session cache first so all panes are
// refetched.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "force must be true or false")
			return
		}
		force = parsed
	}

	entries, err := h.watchlist.List(r.Context(), id.UserID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "failed to load watchlist")
		return
	}

	cards := h.boards.Board(id.SessionID).Refresh(r.Context(), deref(entries), force)
	respond.JSON(w, http.StatusOK, boardResponse{Cards: cards})
}

// Snapshot returns the board's current card states without fetching.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}
	respond.JSON(w, http.StatusOK, boardResponse{Cards: h.boards.Board(id.SessionID).Snapshot()})
}

// Close discards the session's board and cache.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing identity")
		return
	}
	h.boards.Drop(id.SessionID)
	respond.JSON(w, http.StatusNoContent, nil)
}

func deref(entries []*entity.WatchlistEntry) []entity.WatchlistEntry {
	out := make([]entity.WatchlistEntry, len(entries))
	for i, e := range entries {
		out[i] = *e
	}
	return out
}
