package lore

import (
	"encoding/json"
	"fmt"
	"time"
)

// DocumentType identifies which campaign collection a document belongs to.
// The set is closed; the vector store indexes by it.
type DocumentType string

const (
	DocumentJournal DocumentType = "journal"
	DocumentActor   DocumentType = "actor"
	DocumentItem    DocumentType = "item"
	DocumentScene   DocumentType = "scene"
)

// AllDocumentTypes returns every known document type in a stable order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{DocumentJournal, DocumentActor, DocumentItem, DocumentScene}
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentJournal, DocumentActor, DocumentItem, DocumentScene:
		return true
	}
	return false
}

// Document is the plain-text view of a campaign record handed to the indexer
// by a Source. Content is already extracted to plain text (no HTML/markdown).
type Document struct {
	ID           string
	Type         DocumentType
	Name         string
	Folder       string
	Content      string
	LastModified time.Time
}

// ChunkID derives the stable composite key for a chunk.
// Re-indexing the same chunk position always produces the same ID, so
// upserts overwrite instead of duplicating.
func ChunkID(docType DocumentType, docID string, chunkIndex int) string {
	return fmt.Sprintf("%s:%s:%d", docType, docID, chunkIndex)
}

// Metadata carries source-specific extras for a chunk. Each document type has
// its own concrete variant; the store treats the value as opaque.
type Metadata interface {
	// DocumentType returns the variant's tag.
	DocumentType() DocumentType
}

// JournalMeta is the metadata variant for journal entries.
type JournalMeta struct {
	// PageCount is an estimate of printed pages for the source entry.
	PageCount int    `json:"page_count,omitempty"`
	Path      string `json:"path,omitempty"`
}

func (JournalMeta) DocumentType() DocumentType { return DocumentJournal }

// ActorMeta is the metadata variant for actor sheets.
type ActorMeta struct {
	// Kind distinguishes player characters from NPCs and monsters.
	Kind string `json:"kind,omitempty"`
	Path string `json:"path,omitempty"`
}

func (ActorMeta) DocumentType() DocumentType { return DocumentActor }

// ItemMeta is the metadata variant for item records.
type ItemMeta struct {
	Path string `json:"path,omitempty"`
}

func (ItemMeta) DocumentType() DocumentType { return DocumentItem }

// SceneMeta is the metadata variant for scene descriptions.
type SceneMeta struct {
	Path string `json:"path,omitempty"`
}

func (SceneMeta) DocumentType() DocumentType { return DocumentScene }

// EncodeMetadata serializes a metadata variant to JSON. A nil value encodes
// to nil bytes.
func EncodeMetadata(m Metadata) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return data, nil
}

// DecodeMetadata deserializes the metadata variant for the given document
// type. Empty input yields nil.
func DecodeMetadata(docType DocumentType, data []byte) (Metadata, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var (
		m   Metadata
		err error
	)
	switch docType {
	case DocumentJournal:
		var v JournalMeta
		err = json.Unmarshal(data, &v)
		m = v
	case DocumentActor:
		var v ActorMeta
		err = json.Unmarshal(data, &v)
		m = v
	case DocumentItem:
		var v ItemMeta
		err = json.Unmarshal(data, &v)
		m = v
	case DocumentScene:
		var v SceneMeta
		err = json.Unmarshal(data, &v)
		m = v
	default:
		return nil, fmt.Errorf("unknown document type: %s", docType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s metadata: %w", docType, err)
	}
	return m, nil
}
