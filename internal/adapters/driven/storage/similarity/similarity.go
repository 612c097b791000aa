// Package similarity holds the exact nearest-neighbour scan shared by the
// in-process vector stores.
package similarity

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Zero vectors and vectors of different length score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK scores every entry against query and returns the k best, ordered by
// descending score. Equal scores keep the order of entries.
func TopK(entries []domain.IndexedEntry, query []float32, k int) []domain.ScoredChunk {
	scored := make([]domain.ScoredChunk, len(entries))
	for i, entry := range entries {
		scored[i] = domain.ScoredChunk{
			Chunk: entry.Chunk,
			Score: Cosine(query, entry.Vector),
		}
	}

	slices.SortStableFunc(scored, func(a, b domain.ScoredChunk) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

// CheckVectors returns domain.ErrDimensionMismatch for the first entry whose
// vector length differs from dims.
func CheckVectors(entries []domain.IndexedEntry, dims int) error {
	for i, entry := range entries {
		if len(entry.Vector) != dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, store has %d",
				domain.ErrDimensionMismatch, i, len(entry.Vector), dims)
		}
	}
	return nil
}

// CheckQuery validates a query vector and result count against the store.
func CheckQuery(vector []float32, k, dims int) error {
	if k <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if len(vector) != dims {
		return fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrDimensionMismatch, len(vector), dims)
	}
	return nil
}
