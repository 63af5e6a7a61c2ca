package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/llm"
	"lorekeeper/internal/lore"
	"lorekeeper/internal/vectorstore"
)

// DefaultBatchSize is how many chunk texts go to the embedding gateway per
// call. It trades request count against payload size and the blast radius of
// a failed batch.
const DefaultBatchSize = 20

// Phase identifies where in the indexing run a progress event was emitted.
type Phase string

const (
	PhaseExtracting Phase = "extracting"
	PhaseChunking   Phase = "chunking"
	PhaseEmbedding  Phase = "embedding"
	PhaseStoring    Phase = "storing"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// Progress is one progress event. Current/Total count documents during
// chunking and chunks during embedding/storing. Message carries a
// human-readable summary for the error and complete phases.
type Progress struct {
	Phase        Phase  `json:"phase"`
	Current      int    `json:"current"`
	Total        int    `json:"total"`
	DocumentName string `json:"document_name,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ProgressFunc receives progress events during a reindex run.
type ProgressFunc func(Progress)

// ErrReindexInProgress is returned when a reindex is requested while another
// one is still running against the same store.
var ErrReindexInProgress = errors.New("reindex already in progress")

// Pipeline coordinates extraction, chunking, batched embedding and storage.
// At most one reindex runs at a time per pipeline; concurrent requests are
// rejected rather than queued, since racing Clear calls would corrupt the
// store.
type Pipeline struct {
	source    lore.Source
	embedder  llm.Embedder
	store     vectorstore.Store
	chunker   *Chunker
	batchSize int
	inFlight  atomic.Bool
}

// NewPipeline creates an indexing pipeline. A nil chunker or non-positive
// batch size falls back to the defaults.
func NewPipeline(source lore.Source, embedder llm.Embedder, store vectorstore.Store, chunker *Chunker, batchSize int) *Pipeline {
	if chunker == nil {
		chunker = NewChunker(0, 0)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		source:    source,
		embedder:  embedder,
		store:     store,
		chunker:   chunker,
		batchSize: batchSize,
	}
}

// ReindexAll rebuilds the whole index from scratch: the store is cleared
// before re-population, so a failure mid-run leaves it empty or partially
// populated until the next run. Finding zero documents is a normal empty
// completion, not an error.
func (p *Pipeline) ReindexAll(ctx context.Context, types []lore.DocumentType, onProgress ProgressFunc) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return ErrReindexInProgress
	}
	defer p.inFlight.Store(false)

	logger := contextutil.LoggerFromContext(ctx)
	report := reporter(onProgress)

	report(Progress{Phase: PhaseExtracting})
	docs, err := p.source.Collect(ctx, types)
	if err != nil {
		return p.fail(ctx, report, fmt.Errorf("failed to extract documents: %w", err))
	}
	if len(docs) == 0 {
		logger.InfoContext(ctx, "no documents to index")
		report(Progress{Phase: PhaseComplete, Message: "no documents to index"})
		return nil
	}

	if err := p.store.Clear(ctx); err != nil {
		return p.fail(ctx, report, fmt.Errorf("failed to clear store: %w", err))
	}

	return p.indexDocuments(ctx, docs, report)
}

// ReindexChanged re-indexes only documents whose LastModified differs from
// the stored index metadata, and drops documents that disappeared from the
// source. Unchanged documents keep their existing chunks. Finding zero
// documents completes without touching the store.
func (p *Pipeline) ReindexChanged(ctx context.Context, types []lore.DocumentType, onProgress ProgressFunc) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return ErrReindexInProgress
	}
	defer p.inFlight.Store(false)

	logger := contextutil.LoggerFromContext(ctx)
	report := reporter(onProgress)

	report(Progress{Phase: PhaseExtracting})
	docs, err := p.source.Collect(ctx, types)
	if err != nil {
		return p.fail(ctx, report, fmt.Errorf("failed to extract documents: %w", err))
	}
	if len(docs) == 0 {
		// An empty collect is not a mass deletion. A transiently empty or
		// misconfigured source must never wipe a healthy index.
		logger.InfoContext(ctx, "no documents to index")
		report(Progress{Phase: PhaseComplete, Message: "no documents to index"})
		return nil
	}

	existing, err := p.store.GetAllIndexMeta(ctx)
	if err != nil {
		return p.fail(ctx, report, fmt.Errorf("failed to read index metadata: %w", err))
	}

	byID := make(map[string]vectorstore.IndexMeta, len(existing))
	for _, meta := range existing {
		byID[meta.DocumentID] = meta
	}
	current := make(map[string]bool, len(docs))
	for _, doc := range docs {
		current[doc.ID] = true
	}

	// Documents deleted at the source lose their chunks and metadata.
	for _, meta := range existing {
		if current[meta.DocumentID] {
			continue
		}
		if err := p.store.DeleteByDocument(ctx, meta.DocumentID); err != nil {
			return p.fail(ctx, report, fmt.Errorf("failed to delete document %s: %w", meta.DocumentID, err))
		}
		if err := p.store.DeleteIndexMeta(ctx, meta.DocumentID); err != nil {
			return p.fail(ctx, report, fmt.Errorf("failed to delete index metadata for %s: %w", meta.DocumentID, err))
		}
		logger.InfoContext(ctx, "removed deleted document from index", "document_id", meta.DocumentID)
	}

	var changed []lore.Document
	for _, doc := range docs {
		meta, ok := byID[doc.ID]
		if ok && meta.LastModified.Equal(doc.LastModified) {
			continue
		}
		changed = append(changed, doc)
	}
	if len(changed) == 0 {
		logger.InfoContext(ctx, "index up to date", "documents", len(docs))
		report(Progress{Phase: PhaseComplete, Message: "index up to date"})
		return nil
	}

	// Old chunks go first so a document whose chunk count shrank leaves no
	// stale rows behind.
	for _, doc := range changed {
		if err := p.store.DeleteByDocument(ctx, doc.ID); err != nil {
			return p.fail(ctx, report, fmt.Errorf("failed to delete stale chunks for %s: %w", doc.ID, err))
		}
	}

	return p.indexDocuments(ctx, changed, report)
}

// pendingChunk is a chunk awaiting embedding, tied back to its document.
type pendingChunk struct {
	doc   *lore.Document
	index int
	text  string
}

// indexDocuments chunks the documents, embeds the chunks in batches, upserts
// each batch's vectors together, and finally writes one index metadata
// record per document. Cancellation is checked between batches.
func (p *Pipeline) indexDocuments(ctx context.Context, docs []lore.Document, report ProgressFunc) error {
	logger := contextutil.LoggerFromContext(ctx)

	var pending []pendingChunk
	counts := make([]int, len(docs))
	for i := range docs {
		pieces := p.chunker.Chunk(docs[i].Content)
		for j, text := range pieces {
			pending = append(pending, pendingChunk{doc: &docs[i], index: j, text: text})
		}
		counts[i] = len(pieces)
		report(Progress{Phase: PhaseChunking, Current: i + 1, Total: len(docs), DocumentName: docs[i].Name})
	}

	total := len(pending)
	for start := 0; start < total; start += p.batchSize {
		select {
		case <-ctx.Done():
			return p.fail(ctx, report, fmt.Errorf("indexing cancelled: %w", ctx.Err()))
		default:
		}

		end := min(start+p.batchSize, total)
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.text
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return p.fail(ctx, report, fmt.Errorf("failed to embed batch: %w", err))
		}
		if len(vectors) != len(batch) {
			return p.fail(ctx, report, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors)))
		}
		report(Progress{Phase: PhaseEmbedding, Current: end, Total: total})

		entries := make([]vectorstore.Entry, len(batch))
		for i, c := range batch {
			entries[i] = vectorstore.Entry{
				ID:           lore.ChunkID(c.doc.Type, c.doc.ID, c.index),
				DocumentID:   c.doc.ID,
				DocumentType: c.doc.Type,
				DocumentName: c.doc.Name,
				FolderName:   c.doc.Folder,
				ChunkIndex:   c.index,
				Text:         c.text,
				Vector:       vectors[i],
				Metadata:     lore.MetadataFor(*c.doc),
			}
		}
		if err := p.store.UpsertVectors(ctx, entries); err != nil {
			return p.fail(ctx, report, fmt.Errorf("failed to store batch: %w", err))
		}
		report(Progress{Phase: PhaseStoring, Current: end, Total: total})
	}

	for i := range docs {
		meta := vectorstore.IndexMeta{
			DocumentID:   docs[i].ID,
			DocumentType: docs[i].Type,
			DocumentName: docs[i].Name,
			LastModified: docs[i].LastModified,
			ChunkCount:   counts[i],
		}
		if err := p.store.SetIndexMeta(ctx, meta); err != nil {
			return p.fail(ctx, report, fmt.Errorf("failed to write index metadata for %s: %w", meta.DocumentID, err))
		}
	}

	logger.InfoContext(ctx, "indexing completed", "documents", len(docs), "chunks", total)
	report(Progress{Phase: PhaseComplete, Current: total, Total: total})
	return nil
}

// fail logs the failure and emits the terminal error event before handing
// the error back to the caller.
func (p *Pipeline) fail(ctx context.Context, report ProgressFunc, err error) error {
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "indexing failed", "error", err)
	report(Progress{Phase: PhaseError, Message: err.Error()})
	return err
}

// reporter makes the callback safe to call when none was provided.
func reporter(onProgress ProgressFunc) ProgressFunc {
	if onProgress == nil {
		return func(Progress) {}
	}
	return onProgress
}
