package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"lorekeeper/internal/config"
	"lorekeeper/internal/http"
	"lorekeeper/internal/indexer"
	"lorekeeper/internal/llm"
	"lorekeeper/internal/lore"
	"lorekeeper/internal/search"
	"lorekeeper/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	ctx := context.Background()

	store := vectorstore.NewSQLiteStore(cfg.DBPath)
	if err := store.Open(ctx); err != nil {
		log.Fatalf("Failed to open vector store: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()
	slog.Info("Vector store ready", "path", cfg.DBPath)

	embedder, err := llm.NewEmbedder(cfg.EmbeddingProvider, cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.VectorSize)
	if err != nil {
		log.Fatalf("Failed to create embedding gateway: %v", err)
	}
	slog.Info("Embedding gateway configured", "provider", cfg.EmbeddingProvider, "model", cfg.EmbeddingModel, "vector_size", cfg.VectorSize)

	source := lore.NewDirSource(map[lore.DocumentType]string{
		lore.DocumentJournal: cfg.JournalPath,
		lore.DocumentActor:   cfg.ActorPath,
		lore.DocumentItem:    cfg.ItemPath,
		lore.DocumentScene:   cfg.ScenePath,
	})
	slog.Info("Document source configured", "types", len(source.Types()))

	chunker := indexer.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	pipeline := indexer.NewPipeline(source, embedder, store, chunker, cfg.EmbedBatchSize)

	var chat *llm.Client
	if cfg.LLMBaseURL != "" {
		chat = llm.NewClient(cfg.LLMBaseURL, cfg.EmbeddingAPIKey, cfg.LLMModel)
		slog.Info("Chat client configured", "model", cfg.LLMModel)
	}
	searchService := search.NewService(embedder, store, chat)

	deps := &http.Deps{
		SearchService: searchService,
		Pipeline:      pipeline,
		Store:         store,
		SourceTypes:   source.Types(),
	}
	router := http.NewRouter(deps)

	// Bring the index up to date in the background once the server is
	// accepting requests.
	go func() {
		slog.Info("Starting background incremental index run")
		if err := pipeline.ReindexChanged(context.Background(), source.Types(), nil); err != nil {
			slog.Error("Background indexing failed", "error", err)
		} else {
			slog.Info("Background indexing completed")
		}
	}()

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
