package handlers

import (
	"errors"
	"net/http"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/vectorstore"
)

// StatsHandler exposes the store's aggregate counts.
type StatsHandler struct {
	store vectorstore.Store
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store vectorstore.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.store.Stats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read stats", "error", err)
		if errors.Is(err, vectorstore.ErrNotOpen) {
			writeError(w, http.StatusServiceUnavailable, "store is not available")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
