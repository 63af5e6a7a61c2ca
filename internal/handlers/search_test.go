package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	llm_mocks "lorekeeper/internal/llm/mocks"
	"lorekeeper/internal/lore"
	"lorekeeper/internal/search"
	"lorekeeper/internal/vectorstore"
	vectorstore_mocks "lorekeeper/internal/vectorstore/mocks"
)

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := llm_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockStore(ctrl)

	results := []vectorstore.SearchResult{
		{
			Entry: vectorstore.Entry{
				ID:           "journal:session-3:0",
				DocumentID:   "session-3",
				DocumentType: lore.DocumentJournal,
				DocumentName: "Session 3",
				ChunkIndex:   0,
				Text:         "The party entered the crypt.",
			},
			Score: 0.88,
		},
	}

	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"crypt"}).Return([][]float32{{1, 0}}, nil)
	store.EXPECT().Search(gomock.Any(), gomock.Any(), search.DefaultTopK, gomock.Nil()).Return(results, nil)

	handler := NewSearchHandler(search.NewService(embedder, store, nil))

	rec := postJSON(t, handler, "/api/search", SearchRequest{Query: "crypt"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].DocumentID != "session-3" || resp.Results[0].Score != 0.88 {
		t.Errorf("result = %+v", resp.Results[0])
	}
	if !strings.Contains(resp.Context, "The party entered the crypt.") {
		t.Errorf("context = %q, want chunk text", resp.Context)
	}
}

func TestSearchHandler_TypeFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	embedder := llm_mocks.NewMockEmbedder(ctrl)
	store := vectorstore_mocks.NewMockStore(ctrl)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
	store.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), &vectorstore.Filter{DocumentType: lore.DocumentActor}).Return(nil, nil)

	handler := NewSearchHandler(search.NewService(embedder, store, nil))

	rec := postJSON(t, handler, "/api/search", SearchRequest{Query: "valthra", Type: "actor"})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestSearchHandler_BadRequests(t *testing.T) {
	handler := NewSearchHandler(search.NewService(nil, nil, nil))

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{
			name:       "wrong method",
			method:     http.MethodGet,
			body:       "",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid json",
			method:     http.MethodPost,
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty query",
			method:     http.MethodPost,
			body:       `{"query": "   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown type",
			method:     http.MethodPost,
			body:       `{"query": "crypt", "type": "spell"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestSearchHandler_NotConfigured(t *testing.T) {
	handler := NewSearchHandler(search.NewService(nil, nil, nil))

	rec := postJSON(t, handler, "/api/search", SearchRequest{Query: "crypt"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503: %s", rec.Code, rec.Body.String())
	}
}
