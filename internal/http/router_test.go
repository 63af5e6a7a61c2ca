package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"lorekeeper/internal/indexer"
	llm_mocks "lorekeeper/internal/llm/mocks"
	"lorekeeper/internal/lore"
	lore_mocks "lorekeeper/internal/lore/mocks"
	"lorekeeper/internal/search"
	"lorekeeper/internal/vectorstore"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	embedder := llm_mocks.NewMockEmbedder(ctrl)
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0}
			}
			return vectors, nil
		}).AnyTimes()

	source := lore_mocks.NewMockSource(ctrl)
	source.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	store := vectorstore.NewSQLiteStore(t.TempDir() + "/test.db")
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	service := search.NewService(embedder, store, nil)
	pipeline := indexer.NewPipeline(source, embedder, store, nil, 0)

	return NewRouter(&Deps{
		SearchService: service,
		Pipeline:      pipeline,
		Store:         store,
		SourceTypes:   lore.AllDocumentTypes(),
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "search",
			method:     http.MethodPost,
			path:       "/api/search",
			body:       `{"query": "crypt"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "ask without chat client",
			method:     http.MethodPost,
			path:       "/api/ask",
			body:       `{"question": "who?"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "stats",
			method:     http.MethodGet,
			path:       "/api/stats",
			wantStatus: http.StatusOK,
		},
		{
			name:       "health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nothing",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "search requires POST",
			method:     http.MethodGet,
			path:       "/api/search",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
