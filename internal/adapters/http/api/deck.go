// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// DeckDependencies defines the interface for deck read operations.
type DeckDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// DeckHandler handles ranked deck requests.
type DeckHandler struct {
	deps     DeckDependencies
	maxLimit int
}

// NewDeckHandler creates a new deck handler.
func NewDeckHandler(deps DeckDependencies, maxLimit int) *DeckHandler {
	return &DeckHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetDeck handles GET /deck?limit=N requests.
func (h *DeckHandler) HandleGetDeck(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_deck"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
