package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/search"
)

// AskHandler handles HTTP requests for retrieve-and-answer queries.
type AskHandler struct {
	service *search.Service
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(service *search.Service) *AskHandler {
	return &AskHandler{service: service}
}

// AskRequest represents the HTTP request payload for ask queries.
type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
	Type     string `json:"type,omitempty"`
}

// AskReference points at a chunk the answer drew on.
type AskReference struct {
	DocumentID   string  `json:"document_id"`
	DocumentType string  `json:"document_type"`
	DocumentName string  `json:"document_name"`
	ChunkIndex   int     `json:"chunk_index"`
	Score        float32 `json:"score"`
}

// AskResponse represents the HTTP response payload for ask queries.
type AskResponse struct {
	Answer     string         `json:"answer"`
	References []AskReference `json:"references"`
}

// ServeHTTP handles POST /api/ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	filter, err := typeFilter(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Ask(ctx, search.AskRequest{
		Question: req.Question,
		TopK:     req.TopK,
		Filter:   filter,
	})
	if err != nil {
		logger.ErrorContext(ctx, "ask failed", "error", err)
		if errors.Is(err, search.ErrNoAnswerer) || errors.Is(err, search.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "answer generation is not available")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to answer question")
		return
	}

	out := AskResponse{
		Answer:     resp.Answer,
		References: make([]AskReference, 0, len(resp.Results)),
	}
	for _, result := range resp.Results {
		out.References = append(out.References, AskReference{
			DocumentID:   result.Entry.DocumentID,
			DocumentType: string(result.Entry.DocumentType),
			DocumentName: result.Entry.DocumentName,
			ChunkIndex:   result.Entry.ChunkIndex,
			Score:        result.Score,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
