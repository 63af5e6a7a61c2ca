package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lorekeeper/internal/handlers"
	"lorekeeper/internal/indexer"
	"lorekeeper/internal/lore"
	"lorekeeper/internal/search"
	"lorekeeper/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	SearchService *search.Service
	Pipeline      *indexer.Pipeline
	Store         vectorstore.Store
	SourceTypes   []lore.DocumentType
}

// NewRouter creates the HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	searchHandler := handlers.NewSearchHandler(deps.SearchService)
	askHandler := handlers.NewAskHandler(deps.SearchService)
	reindexHandler := handlers.NewReindexHandler(deps.Pipeline, deps.SourceTypes)
	statsHandler := handlers.NewStatsHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/reindex", reindexHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
