package vectorstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"lorekeeper/internal/lore"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store := NewSQLiteStore(t.TempDir() + "/test.db")
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testEntry(docID string, chunkIndex int, vector []float32) Entry {
	return Entry{
		ID:           lore.ChunkID(lore.DocumentJournal, docID, chunkIndex),
		DocumentID:   docID,
		DocumentType: lore.DocumentJournal,
		DocumentName: "Session Notes",
		ChunkIndex:   chunkIndex,
		Text:         "chunk text",
		Vector:       vector,
	}
}

func TestSQLiteStore_NotOpen(t *testing.T) {
	store := NewSQLiteStore(t.TempDir() + "/test.db")
	ctx := context.Background()

	if err := store.UpsertVectors(ctx, []Entry{testEntry("d", 0, []float32{1})}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("UpsertVectors() error = %v, want ErrNotOpen", err)
	}
	if _, err := store.Search(ctx, []float32{1}, 5, nil); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Search() error = %v, want ErrNotOpen", err)
	}
	if _, err := store.Stats(ctx); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Stats() error = %v, want ErrNotOpen", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Clear() error = %v, want ErrNotOpen", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() on unopened store error = %v", err)
	}
}

func TestSQLiteStore_OpenIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Open(context.Background()); err != nil {
		t.Errorf("second Open() error = %v", err)
	}
}

func TestSQLiteStore_UpsertAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		testEntry("session-1", 0, []float32{1, 0, 0}),
		testEntry("session-1", 1, []float32{0, 1, 0}),
		testEntry("session-2", 0, []float32{0, 0, 1}),
	}
	if err := store.UpsertVectors(ctx, entries); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	if results[0].Entry.ID != entries[0].ID {
		t.Errorf("best match = %s, want %s", results[0].Entry.ID, entries[0].ID)
	}
	if results[0].Score < 0.999 {
		t.Errorf("best match score = %v, want ~1", results[0].Score)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not in non-increasing score order")
	}
}

func TestSQLiteStore_SearchEmptyStore(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), []float32{1, 0}, 5, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() on empty store returned %d results, want 0", len(results))
	}
}

func TestSQLiteStore_SearchInvalidTopK(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Search(context.Background(), []float32{1}, 0, nil); err == nil {
		t.Error("Search() with topK=0 expected error, got nil")
	}
}

func TestSQLiteStore_SearchWithFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	journal := testEntry("session-1", 0, []float32{1, 0})
	actor := Entry{
		ID:           lore.ChunkID(lore.DocumentActor, "valthra", 0),
		DocumentID:   "valthra",
		DocumentType: lore.DocumentActor,
		DocumentName: "Valthra",
		ChunkIndex:   0,
		Text:         "actor text",
		Vector:       []float32{1, 0},
	}
	if err := store.UpsertVectors(ctx, []Entry{journal, actor}); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0}, 10, &Filter{DocumentType: lore.DocumentActor})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("filtered Search() returned %d results, want 1", len(results))
	}
	if results[0].Entry.DocumentType != lore.DocumentActor {
		t.Errorf("filtered result type = %s, want actor", results[0].Entry.DocumentType)
	}
}

func TestSQLiteStore_UpsertReplacesByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := testEntry("session-1", 0, []float32{1, 0})
	if err := store.UpsertVectors(ctx, []Entry{entry}); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}

	entry.Text = "revised text"
	entry.Vector = []float32{0, 1}
	if err := store.UpsertVectors(ctx, []Entry{entry}); err != nil {
		t.Fatalf("second UpsertVectors() error = %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVectors != 1 {
		t.Errorf("TotalVectors = %d after same-ID upsert, want 1", stats.TotalVectors)
	}

	results, err := store.Search(ctx, []float32{0, 1}, 1, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Entry.Text != "revised text" {
		t.Errorf("stored text = %q, want revised text", results[0].Entry.Text)
	}
}

func TestSQLiteStore_MetadataRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := testEntry("session-1", 0, []float32{1})
	entry.Metadata = lore.JournalMeta{PageCount: 3, Path: "session-1.md"}
	if err := store.UpsertVectors(ctx, []Entry{entry}); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}

	results, err := store.Search(ctx, []float32{1}, 1, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	meta, ok := results[0].Entry.Metadata.(lore.JournalMeta)
	if !ok {
		t.Fatalf("metadata type = %T, want JournalMeta", results[0].Entry.Metadata)
	}
	if meta.PageCount != 3 || meta.Path != "session-1.md" {
		t.Errorf("metadata = %+v, want PageCount 3 and Path session-1.md", meta)
	}
}

func TestSQLiteStore_DeleteByDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		testEntry("session-1", 0, []float32{1, 0}),
		testEntry("session-1", 1, []float32{0, 1}),
		testEntry("session-2", 0, []float32{1, 1}),
	}
	if err := store.UpsertVectors(ctx, entries); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}

	if err := store.DeleteByDocument(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteByDocument() error = %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 1}, 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results after delete, want 1", len(results))
	}
	if results[0].Entry.DocumentID != "session-2" {
		t.Errorf("remaining document = %s, want session-2", results[0].Entry.DocumentID)
	}
}

func TestSQLiteStore_IndexMeta(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	modified := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	meta := IndexMeta{
		DocumentID:   "session-1",
		DocumentType: lore.DocumentJournal,
		DocumentName: "Session Notes",
		LastModified: modified,
		ChunkCount:   4,
	}
	if err := store.SetIndexMeta(ctx, meta); err != nil {
		t.Fatalf("SetIndexMeta() error = %v", err)
	}

	got, err := store.GetIndexMeta(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetIndexMeta() error = %v", err)
	}
	if got.DocumentType != lore.DocumentJournal || got.ChunkCount != 4 {
		t.Errorf("GetIndexMeta() = %+v", got)
	}
	if !got.LastModified.Equal(modified) {
		t.Errorf("LastModified = %v, want %v", got.LastModified, modified)
	}

	// Replacing via the same primary key.
	meta.ChunkCount = 7
	if err := store.SetIndexMeta(ctx, meta); err != nil {
		t.Fatalf("second SetIndexMeta() error = %v", err)
	}
	got, err = store.GetIndexMeta(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetIndexMeta() error = %v", err)
	}
	if got.ChunkCount != 7 {
		t.Errorf("ChunkCount = %d after upsert, want 7", got.ChunkCount)
	}

	all, err := store.GetAllIndexMeta(ctx)
	if err != nil {
		t.Fatalf("GetAllIndexMeta() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAllIndexMeta() returned %d records, want 1", len(all))
	}

	if err := store.DeleteIndexMeta(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteIndexMeta() error = %v", err)
	}
	if _, err := store.GetIndexMeta(ctx, "session-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetIndexMeta() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		testEntry("session-1", 0, []float32{1}),
		testEntry("session-1", 1, []float32{1}),
	}
	if err := store.UpsertVectors(ctx, entries); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}
	metas := []IndexMeta{
		{DocumentID: "session-1", DocumentType: lore.DocumentJournal, DocumentName: "Session Notes", LastModified: time.Now().UTC(), ChunkCount: 2},
		{DocumentID: "valthra", DocumentType: lore.DocumentActor, DocumentName: "Valthra", LastModified: time.Now().UTC(), ChunkCount: 1},
	}
	for _, meta := range metas {
		if err := store.SetIndexMeta(ctx, meta); err != nil {
			t.Fatalf("SetIndexMeta() error = %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVectors != 2 {
		t.Errorf("TotalVectors = %d, want 2", stats.TotalVectors)
	}
	if stats.TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", stats.TotalDocuments)
	}
	if stats.ByType[lore.DocumentJournal] != 1 || stats.ByType[lore.DocumentActor] != 1 {
		t.Errorf("ByType = %v", stats.ByType)
	}
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertVectors(ctx, []Entry{testEntry("session-1", 0, []float32{1})}); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}
	meta := IndexMeta{DocumentID: "session-1", DocumentType: lore.DocumentJournal, DocumentName: "Session Notes", LastModified: time.Now().UTC(), ChunkCount: 1}
	if err := store.SetIndexMeta(ctx, meta); err != nil {
		t.Fatalf("SetIndexMeta() error = %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVectors != 0 || stats.TotalDocuments != 0 {
		t.Errorf("stats after Clear = %+v, want zeros", stats)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/test.db"
	ctx := context.Background()

	store := NewSQLiteStore(path)
	if err := store.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.UpsertVectors(ctx, []Entry{testEntry("session-1", 0, []float32{0.5, -0.5})}); err != nil {
		t.Fatalf("UpsertVectors() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() {
		_ = reopened.Close()
	}()

	results, err := reopened.Search(ctx, []float32{0.5, -0.5}, 1, nil)
	if err != nil {
		t.Fatalf("Search() after reopen error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() after reopen returned %d results, want 1", len(results))
	}
	if results[0].Entry.Vector[0] != 0.5 || results[0].Entry.Vector[1] != -0.5 {
		t.Errorf("vector after reopen = %v", results[0].Entry.Vector)
	}
}
