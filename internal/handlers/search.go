package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/lore"
	"lorekeeper/internal/search"
	"lorekeeper/internal/vectorstore"
)

// SearchHandler handles HTTP requests for semantic search.
type SearchHandler struct {
	service *search.Service
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchRequest represents the HTTP request payload for search queries.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
	// Type optionally restricts results to one document type.
	Type string `json:"type,omitempty"`
}

// SearchResultItem is one ranked match in the response.
type SearchResultItem struct {
	ID           string  `json:"id"`
	DocumentID   string  `json:"document_id"`
	DocumentType string  `json:"document_type"`
	DocumentName string  `json:"document_name"`
	FolderName   string  `json:"folder_name,omitempty"`
	ChunkIndex   int     `json:"chunk_index"`
	Text         string  `json:"text"`
	Score        float32 `json:"score"`
}

// SearchResponse represents the HTTP response payload for search queries.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
	Context string             `json:"context,omitempty"`
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	filter, err := typeFilter(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.Search(ctx, req.Query, req.TopK, filter)
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "error", err)
		if errors.Is(err, search.ErrNotConfigured) || errors.Is(err, vectorstore.ErrNotOpen) {
			writeError(w, http.StatusServiceUnavailable, "search is not available")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	resp := SearchResponse{
		Results: make([]SearchResultItem, 0, len(results)),
		Context: search.BuildContext(results),
	}
	for _, result := range results {
		resp.Results = append(resp.Results, SearchResultItem{
			ID:           result.Entry.ID,
			DocumentID:   result.Entry.DocumentID,
			DocumentType: string(result.Entry.DocumentType),
			DocumentName: result.Entry.DocumentName,
			FolderName:   result.Entry.FolderName,
			ChunkIndex:   result.Entry.ChunkIndex,
			Text:         result.Entry.Text,
			Score:        result.Score,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// typeFilter validates an optional document-type filter value.
func typeFilter(value string) (*vectorstore.Filter, error) {
	if value == "" {
		return nil, nil
	}
	docType := lore.DocumentType(value)
	if !docType.Valid() {
		return nil, errors.New("unknown document type: " + value)
	}
	return &vectorstore.Filter{DocumentType: docType}, nil
}
