package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// Location is reported by stores that live only in process memory.
const Location = ":memory:"

// VectorStore is an in-process, non-persistent vector store.
type VectorStore struct {
	mu         sync.RWMutex
	dimensions int
	entries    []domain.IndexedEntry
}

// NewVectorStore creates an empty store accepting vectors of the given size.
func NewVectorStore(dimensions int) *VectorStore {
	return &VectorStore{dimensions: dimensions}
}

// Add appends entries. A single mismatched vector rejects the whole batch.
func (s *VectorStore) Add(ctx context.Context, entries []domain.IndexedEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := similarity.CheckVectors(entries, s.dimensions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries = append(s.entries, domain.IndexedEntry{
			Vector: append([]float32(nil), e.Vector...),
			Chunk:  e.Chunk,
		})
	}
	return nil
}

// Query returns the k entries most similar to vector.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := similarity.CheckQuery(vector, k, s.dimensions); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return similarity.TopK(s.entries, vector, k), nil
}

// Count returns the number of stored entries.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Dimensions returns the accepted vector size.
func (s *VectorStore) Dimensions() int {
	return s.dimensions
}

// Location reports the store is not persisted.
func (s *VectorStore) Location() string {
	return Location
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
