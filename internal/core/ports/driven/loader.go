package driven

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// DocumentLoader reads supported files into Documents.
type DocumentLoader interface {
	// Load scans dir for supported files. A missing or empty directory
	// returns no documents and no error. The first file that cannot be
	// decoded aborts loading with a *domain.FileError.
	Load(ctx context.Context, dir string) ([]domain.Document, error)

	// LoadFiles loads the given files. Unsupported files are skipped.
	LoadFiles(ctx context.Context, paths []string) ([]domain.Document, error)
}

// Chunker splits Documents into overlapping Chunks.
type Chunker interface {
	// Split chunks every document, preserving document order and
	// ascending StartIndex within each document.
	Split(docs []domain.Document) []domain.Chunk
}
