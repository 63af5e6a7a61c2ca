package lore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// runesPerPage approximates how much plain text fills one printed page, used
// for the journal page-count estimate.
const runesPerPage = 3000

// DirSource reads campaign documents from one markdown directory per
// document type. Document IDs are the extension-less relative paths, so a
// file keeps its identity across reindex runs.
type DirSource struct {
	roots     map[DocumentType]string
	extractor *MarkdownExtractor
}

// NewDirSource creates a filesystem source. roots maps each document type to
// its directory; types without an entry are simply never collected.
func NewDirSource(roots map[DocumentType]string) *DirSource {
	return &DirSource{
		roots:     roots,
		extractor: NewMarkdownExtractor(),
	}
}

// Types returns the document types this source has a directory for, in the
// canonical order.
func (s *DirSource) Types() []DocumentType {
	var types []DocumentType
	for _, t := range AllDocumentTypes() {
		if s.roots[t] != "" {
			types = append(types, t)
		}
	}
	return types
}

// Collect walks the directory for each requested type and extracts every
// markdown file into a Document.
func (s *DirSource) Collect(ctx context.Context, types []DocumentType) ([]Document, error) {
	var docs []Document

	for _, docType := range types {
		root := s.roots[docType]
		if root == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		collected, err := s.collectDir(docType, root)
		if err != nil {
			return nil, fmt.Errorf("failed to collect %s documents: %w", docType, err)
		}
		docs = append(docs, collected...)
	}

	return docs, nil
}

// collectDir walks one root directory for markdown files.
func (s *DirSource) collectDir(docType DocumentType, root string) ([]Document, error) {
	var docs []Document

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}

		title, plain := s.extractor.Extract(content, relPath)

		docs = append(docs, Document{
			ID:           strings.TrimSuffix(relPath, ".md"),
			Type:         docType,
			Name:         title,
			Folder:       folder,
			Content:      plain,
			LastModified: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// MetadataFor builds the typed metadata variant for a document.
func MetadataFor(doc Document) Metadata {
	path := doc.ID + ".md"
	switch doc.Type {
	case DocumentJournal:
		pages := utf8.RuneCountInString(doc.Content)/runesPerPage + 1
		return JournalMeta{PageCount: pages, Path: path}
	case DocumentActor:
		kind := "npc"
		if strings.HasPrefix(doc.Folder, "party") {
			kind = "pc"
		}
		return ActorMeta{Kind: kind, Path: path}
	case DocumentItem:
		return ItemMeta{Path: path}
	case DocumentScene:
		return SceneMeta{Path: path}
	}
	return nil
}
