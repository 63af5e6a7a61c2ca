package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/indexer"
	"lorekeeper/internal/lore"
)

// ReindexHandler triggers indexing runs. The run itself happens in a
// background goroutine so the HTTP response returns immediately; progress is
// written to the server log.
type ReindexHandler struct {
	pipeline *indexer.Pipeline
	types    []lore.DocumentType
}

// NewReindexHandler creates a new ReindexHandler. types lists the document
// collections a run pulls from.
func NewReindexHandler(pipeline *indexer.Pipeline, types []lore.DocumentType) *ReindexHandler {
	return &ReindexHandler{pipeline: pipeline, types: types}
}

// ReindexResponse represents the response from the reindex endpoint.
type ReindexResponse struct {
	JobID   string `json:"job_id"`
	Mode    string `json:"mode"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ServeHTTP handles POST /api/reindex. `?mode=incremental` re-indexes only
// changed documents; the default is a full rebuild.
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := contextutil.LoggerFromContext(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "full"
	}
	if mode != "full" && mode != "incremental" {
		writeError(w, http.StatusBadRequest, "mode must be full or incremental")
		return
	}

	jobID := uuid.New().String()
	logger.InfoContext(r.Context(), "reindex triggered via API", "job_id", jobID, "mode", mode)

	// Background context: the run outlives the HTTP request.
	go h.run(context.Background(), jobID, mode)

	writeJSON(w, http.StatusAccepted, ReindexResponse{
		JobID:   jobID,
		Mode:    mode,
		Status:  "accepted",
		Message: "Indexing started. Check server logs for progress.",
	})
}

// run executes one indexing job, logging each progress event.
func (h *ReindexHandler) run(ctx context.Context, jobID, mode string) {
	logger := slog.Default().With("job_id", jobID, "mode", mode)
	ctx = contextutil.WithLogger(ctx, logger)

	onProgress := func(p indexer.Progress) {
		switch p.Phase {
		case indexer.PhaseError:
			logger.Error("indexing progress", "phase", p.Phase, "message", p.Message)
		default:
			logger.Info("indexing progress",
				"phase", p.Phase, "current", p.Current, "total", p.Total,
				"document", p.DocumentName, "message", p.Message)
		}
	}

	var err error
	if mode == "incremental" {
		err = h.pipeline.ReindexChanged(ctx, h.types, onProgress)
	} else {
		err = h.pipeline.ReindexAll(ctx, h.types, onProgress)
	}

	switch {
	case errors.Is(err, indexer.ErrReindexInProgress):
		logger.Warn("reindex rejected: another run is in progress")
	case err != nil:
		logger.Error("reindex failed", "error", err)
	default:
		logger.Info("reindex completed")
	}
}
