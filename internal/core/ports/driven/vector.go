package driven

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// VectorStore persists indexed chunks and answers nearest-neighbour queries.
// Stores are append-only: there is no update or delete.
type VectorStore interface {
	// Add persists entries. Every vector must have Dimensions() elements,
	// otherwise nothing is written and domain.ErrDimensionMismatch is returned.
	Add(ctx context.Context, entries []domain.IndexedEntry) error

	// Query returns at most k chunks ordered by descending similarity.
	// An empty store returns an empty slice. k must be positive.
	Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the vector size the store accepts.
	Dimensions() int

	// Location describes where entries are kept (a path or an endpoint).
	Location() string

	// Close releases resources.
	Close() error
}

// VectorStoreFactory opens the configured vector store for an embedder
// with the given vector size and model name.
type VectorStoreFactory interface {
	// OpenForIngest opens the store, creating it if necessary.
	OpenForIngest(ctx context.Context, dimensions int, model string) (VectorStore, error)

	// OpenForQuery opens an existing store. A store that has never been
	// built yields an empty in-memory store.
	OpenForQuery(ctx context.Context, dimensions int, model string) (VectorStore, error)

	// Inspect describes the store without validating it against an embedder.
	Inspect(ctx context.Context) (*domain.StoreStatus, error)
}
