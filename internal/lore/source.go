package lore

import "context"

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_source.go -package=mocks lorekeeper/internal/lore Source

// Source hands documents to the indexing pipeline. Implementations own the
// extraction of plain text from whatever format the campaign records live in.
type Source interface {
	// Collect returns every document in the requested collections. A type
	// with no configured backing collection is skipped, not an error.
	Collect(ctx context.Context, types []DocumentType) ([]Document, error)
}
