package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks lorekeeper/internal/vectorstore Store

import (
	"context"
	"errors"
	"math"
	"time"

	"lorekeeper/internal/lore"
)

var (
	// ErrNotOpen is returned when an operation runs before Open (or after
	// Close). This is a programmer error, not a retryable condition.
	ErrNotOpen = errors.New("vector store not open")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// Entry is a stored chunk record: provenance fields, the chunk text, and its
// embedding vector. ID is the composite key from lore.ChunkID.
type Entry struct {
	ID           string
	DocumentID   string
	DocumentType lore.DocumentType
	DocumentName string
	FolderName   string
	ChunkIndex   int
	Text         string
	Vector       []float32
	Metadata     lore.Metadata
}

// IndexMeta is the per-document bookkeeping record. Its lifecycle is
// independent from the document's chunk rows; the indexing pipeline keeps
// ChunkCount in sync.
type IndexMeta struct {
	DocumentID   string
	DocumentType lore.DocumentType
	DocumentName string
	LastModified time.Time
	ChunkCount   int
}

// SearchResult pairs a stored entry with its cosine similarity to the query.
type SearchResult struct {
	Entry Entry
	Score float32
}

// Filter narrows a search to one document type.
type Filter struct {
	DocumentType lore.DocumentType
}

// Stats is the read-only diagnostic surface.
type Stats struct {
	TotalVectors   int                       `json:"total_vectors"`
	TotalDocuments int                       `json:"total_documents"`
	ByType         map[lore.DocumentType]int `json:"by_type"`
}

// Store is persistent, keyed chunk storage plus brute-force cosine search.
// One store instance backs one campaign workspace. All operations except
// Open fail with ErrNotOpen until Open has been called.
type Store interface {
	// Open prepares the underlying storage. Idempotent.
	Open(ctx context.Context) error

	// UpsertVectors inserts or replaces entries by ID.
	UpsertVectors(ctx context.Context, entries []Entry) error

	// DeleteByDocument removes every entry whose DocumentID matches.
	DeleteByDocument(ctx context.Context, documentID string) error

	// SetIndexMeta inserts or replaces a per-document metadata record.
	SetIndexMeta(ctx context.Context, meta IndexMeta) error

	// GetIndexMeta returns the metadata record for one document, or
	// ErrNotFound.
	GetIndexMeta(ctx context.Context, documentID string) (IndexMeta, error)

	// GetAllIndexMeta returns every metadata record.
	GetAllIndexMeta(ctx context.Context) ([]IndexMeta, error)

	// DeleteIndexMeta removes one document's metadata record.
	DeleteIndexMeta(ctx context.Context, documentID string) error

	// Search scores every stored entry against the query vector and
	// returns the topK best matches in non-increasing score order.
	Search(ctx context.Context, query []float32, topK int, filter *Filter) ([]SearchResult, error)

	// Stats returns aggregate counts.
	Stats(ctx context.Context) (Stats, error)

	// Clear atomically empties both the chunk and metadata tables.
	Clear(ctx context.Context) error

	// Close releases the storage handle.
	Close() error
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|). A zero-norm vector or a
// length mismatch scores 0 instead of producing NaN or an error, so one bad
// record cannot abort a whole search.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
