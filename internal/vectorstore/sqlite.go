package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/lore"
)

// SQLiteStore implements Store on a single SQLite file. Search is a
// brute-force scan: the expected corpus is one campaign's documents
// (hundreds to low thousands of chunks), so O(n) scoring is cheaper than
// maintaining an approximate index.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a store backed by the SQLite file at path. The file
// is not touched until Open.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Open opens the database and creates the tables and indices on first use.
// Calling Open on an already-open store is a no-op.
func (s *SQLiteStore) Open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

// migrate creates the schema. Idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			document_type TEXT NOT NULL,
			document_name TEXT NOT NULL,
			folder_name TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			vector BLOB NOT NULL,
			metadata TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document_type ON chunks(document_type);`,
		`CREATE TABLE IF NOT EXISTS index_meta (
			document_id TEXT PRIMARY KEY,
			document_type TEXT NOT NULL,
			document_name TEXT NOT NULL,
			last_modified TIMESTAMP NOT NULL,
			chunk_count INTEGER NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ready guards every operation against use before Open.
func (s *SQLiteStore) ready() error {
	if s.db == nil {
		return ErrNotOpen
	}
	return nil
}

// UpsertVectors inserts or replaces entries by ID in one transaction.
func (s *SQLiteStore) UpsertVectors(ctx context.Context, entries []Entry) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, document_id, document_type, document_name, folder_name, chunk_index, text, vector, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			document_type = excluded.document_type,
			document_name = excluded.document_name,
			folder_name = excluded.folder_name,
			chunk_index = excluded.chunk_index,
			text = excluded.text,
			vector = excluded.vector,
			metadata = excluded.metadata`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, entry := range entries {
		meta, err := lore.EncodeMetadata(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", entry.ID, err)
		}

		var metaArg any
		if meta != nil {
			metaArg = string(meta)
		}

		if _, err := stmt.ExecContext(ctx,
			entry.ID, entry.DocumentID, string(entry.DocumentType), entry.DocumentName,
			entry.FolderName, entry.ChunkIndex, entry.Text, encodeVector(entry.Vector), metaArg,
		); err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

// DeleteByDocument removes every chunk row for the given document.
func (s *SQLiteStore) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete chunks by document: %w", err)
	}
	return nil
}

// SetIndexMeta inserts or replaces the metadata record for one document.
func (s *SQLiteStore) SetIndexMeta(ctx context.Context, meta IndexMeta) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO index_meta (document_id, document_type, document_name, last_modified, chunk_count)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET
			document_type = excluded.document_type,
			document_name = excluded.document_name,
			last_modified = excluded.last_modified,
			chunk_count = excluded.chunk_count`,
		meta.DocumentID, string(meta.DocumentType), meta.DocumentName, meta.LastModified.UTC(), meta.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to set index meta: %w", err)
	}
	return nil
}

// GetIndexMeta returns one document's metadata record.
func (s *SQLiteStore) GetIndexMeta(ctx context.Context, documentID string) (IndexMeta, error) {
	if err := s.ready(); err != nil {
		return IndexMeta{}, err
	}

	var (
		meta    IndexMeta
		docType string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT document_id, document_type, document_name, last_modified, chunk_count FROM index_meta WHERE document_id = ?",
		documentID,
	).Scan(&meta.DocumentID, &docType, &meta.DocumentName, &meta.LastModified, &meta.ChunkCount)
	if err == sql.ErrNoRows {
		return IndexMeta{}, ErrNotFound
	}
	if err != nil {
		return IndexMeta{}, fmt.Errorf("failed to query index meta: %w", err)
	}

	meta.DocumentType = lore.DocumentType(docType)
	meta.LastModified = meta.LastModified.UTC()
	return meta, nil
}

// GetAllIndexMeta returns every metadata record.
func (s *SQLiteStore) GetAllIndexMeta(ctx context.Context) ([]IndexMeta, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT document_id, document_type, document_name, last_modified, chunk_count FROM index_meta ORDER BY document_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query index meta: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var metas []IndexMeta
	for rows.Next() {
		var (
			meta    IndexMeta
			docType string
		)
		if err := rows.Scan(&meta.DocumentID, &docType, &meta.DocumentName, &meta.LastModified, &meta.ChunkCount); err != nil {
			return nil, fmt.Errorf("failed to scan index meta: %w", err)
		}
		meta.DocumentType = lore.DocumentType(docType)
		meta.LastModified = meta.LastModified.UTC()
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return metas, nil
}

// DeleteIndexMeta removes one document's metadata record.
func (s *SQLiteStore) DeleteIndexMeta(ctx context.Context, documentID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM index_meta WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete index meta: %w", err)
	}
	return nil
}

// Search scores every chunk against the query and returns the topK best
// matches. A type filter narrows the scan via the document_type index.
func (s *SQLiteStore) Search(ctx context.Context, query []float32, topK int, filter *Filter) ([]SearchResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	logger := contextutil.LoggerFromContext(ctx)

	sqlQuery := "SELECT id, document_id, document_type, document_name, folder_name, chunk_index, text, vector, metadata FROM chunks"
	var args []any
	if filter != nil && filter.DocumentType != "" {
		sqlQuery += " WHERE document_type = ?"
		args = append(args, string(filter.DocumentType))
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []SearchResult
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{
			Entry: entry,
			Score: CosineSimilarity(query, entry.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	logger.DebugContext(ctx, "vector search completed", "results", len(results), "top_k", topK)
	return results, nil
}

// scanEntry reads one chunk row, decoding the vector and metadata.
func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry   Entry
		docType string
		vec     []byte
		meta    sql.NullString
	)
	if err := rows.Scan(&entry.ID, &entry.DocumentID, &docType, &entry.DocumentName,
		&entry.FolderName, &entry.ChunkIndex, &entry.Text, &vec, &meta); err != nil {
		return Entry{}, fmt.Errorf("failed to scan chunk: %w", err)
	}

	entry.DocumentType = lore.DocumentType(docType)
	entry.Vector = decodeVector(vec)

	if meta.Valid && meta.String != "" {
		decoded, err := lore.DecodeMetadata(entry.DocumentType, []byte(meta.String))
		if err != nil {
			return Entry{}, fmt.Errorf("failed to decode metadata for %s: %w", entry.ID, err)
		}
		entry.Metadata = decoded
	}
	return entry, nil
}

// Stats derives aggregate counts from the metadata table plus one
// store-wide chunk count.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	if err := s.ready(); err != nil {
		return Stats{}, err
	}

	stats := Stats{ByType: make(map[lore.DocumentType]int)}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stats.TotalVectors); err != nil {
		return Stats{}, fmt.Errorf("failed to count chunks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT document_type, COUNT(*) FROM index_meta GROUP BY document_type")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query index meta counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			docType string
			count   int
		)
		if err := rows.Scan(&docType, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan index meta count: %w", err)
		}
		stats.ByType[lore.DocumentType(docType)] = count
		stats.TotalDocuments += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("row iteration error: %w", err)
	}

	return stats, nil
}

// Clear empties both tables in one transaction.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
		return fmt.Errorf("failed to clear index meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

// Close releases the database handle. Operations fail with ErrNotOpen until
// Open is called again.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// encodeVector packs a float32 vector into a little-endian BLOB.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a little-endian BLOB into a float32 vector.
func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
