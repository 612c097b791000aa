package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

type countingLLM struct {
	calls int
}

func (c *countingLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	c.calls++
	return "ok", nil
}

func (c *countingLLM) ModelName() string            { return "counting" }
func (c *countingLLM) Ping(_ context.Context) error { return nil }
func (c *countingLLM) Close() error                 { return nil }

func TestWithLLMRateLimit_ZeroDisables(t *testing.T) {
	inner := &countingLLM{}

	assert.Same(t, driven.LLMService(inner), WithLLMRateLimit(inner, 0))
}

func TestWithLLMRateLimit_Throttles(t *testing.T) {
	inner := &countingLLM{}
	svc := WithLLMRateLimit(inner, 1)

	_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)

	// The next token is a minute away, so a short deadline fails fast.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = svc.Chat(ctx, nil, driven.ChatOptions{})

	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", svc.ModelName())
}
