package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/similarity"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestEmbed_DeterministicAndNormalised(t *testing.T) {
	s := NewEmbeddingService(Config{})
	ctx := context.Background()

	a, err := s.Embed(ctx, "Cats are small domesticated mammals.")
	require.NoError(t, err)
	b, err := s.Embed(ctx, "Cats are small domesticated mammals.")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbed_CaseAndPunctuationInsensitive(t *testing.T) {
	s := NewEmbeddingService(Config{})
	ctx := context.Background()

	a, _ := s.Embed(ctx, "What are cats?")
	b, _ := s.Embed(ctx, "what, ARE cats")
	assert.Equal(t, a, b)
}

func TestEmbed_RelatedTextScoresHigher(t *testing.T) {
	s := NewEmbeddingService(Config{})
	ctx := context.Background()

	question, _ := s.Embed(ctx, "What are cats?")
	cats, _ := s.Embed(ctx, "Cats are small domesticated mammals.")
	tax, _ := s.Embed(ctx, "Quarterly tax filings are due in April.")

	assert.Greater(t, similarity.Cosine(question, cats), similarity.Cosine(question, tax))
}

func TestEmbed_EmptyText(t *testing.T) {
	vec, err := NewEmbeddingService(Config{Dimensions: 8}).Embed(context.Background(), "  ...  ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vec)
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	s := NewEmbeddingService(Config{Dimensions: 64})
	ctx := context.Background()
	texts := []string{"alpha", "beta", "gamma"}

	batch, err := s.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, _ := s.Embed(ctx, text)
		assert.Equal(t, single, batch[i])
	}
}

func TestEmbed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbeddingService(Config{}).Embed(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don", "t", "panic", "42"}, tokenize("Don't PANIC: 42!"))
	assert.Empty(t, tokenize(""))
}
