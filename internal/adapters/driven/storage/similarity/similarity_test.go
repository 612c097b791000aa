package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

func entry(id string, v ...float32) domain.IndexedEntry {
	return domain.IndexedEntry{Vector: v, Chunk: domain.Chunk{ID: id, Text: id}}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestTopK_OrdersAndTruncates(t *testing.T) {
	entries := []domain.IndexedEntry{
		entry("far", 0, 1),
		entry("near", 1, 0.1),
		entry("mid", 1, 1),
	}

	got := TopK(entries, []float32{1, 0}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].Chunk.ID)
	assert.Equal(t, "mid", got[1].Chunk.ID)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}

func TestTopK_TiesKeepInsertionOrder(t *testing.T) {
	entries := []domain.IndexedEntry{
		entry("first", 1, 0),
		entry("second", 2, 0),
		entry("third", 3, 0),
	}

	got := TopK(entries, []float32{1, 0}, 10)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{got[0].Chunk.ID, got[1].Chunk.ID, got[2].Chunk.ID})
}

func TestTopK_Empty(t *testing.T) {
	assert.Empty(t, TopK(nil, []float32{1, 0}, 3))
}

func TestCheckVectors(t *testing.T) {
	assert.NoError(t, CheckVectors([]domain.IndexedEntry{entry("a", 1, 2)}, 2))

	err := CheckVectors([]domain.IndexedEntry{entry("a", 1, 2), entry("b", 1)}, 2)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCheckQuery(t *testing.T) {
	assert.NoError(t, CheckQuery([]float32{1, 2}, 1, 2))
	assert.ErrorIs(t, CheckQuery([]float32{1, 2}, 0, 2), domain.ErrInvalidInput)
	assert.ErrorIs(t, CheckQuery([]float32{1}, 3, 2), domain.ErrDimensionMismatch)
}
