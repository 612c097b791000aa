package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// newLimiter allows requestsPerMinute evenly spaced calls with no burst.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

// rateLimitedEmbedding throttles calls to a remote embedding service.
type rateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// Embed waits for the limiter before embedding.
func (r *rateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.EmbeddingService.Embed(ctx, text)
}

// EmbedBatch waits for the limiter once per batch request.
func (r *rateLimitedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.EmbeddingService.EmbedBatch(ctx, texts)
}

// rateLimitedLLM throttles calls to a remote LLM.
type rateLimitedLLM struct {
	driven.LLMService
	limiter *rate.Limiter
}

// Chat waits for the limiter before sending.
func (r *rateLimitedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.LLMService.Chat(ctx, messages, opts)
}

// WithEmbeddingRateLimit wraps svc when requestsPerMinute is positive.
func WithEmbeddingRateLimit(svc driven.EmbeddingService, requestsPerMinute int) driven.EmbeddingService {
	if requestsPerMinute <= 0 {
		return svc
	}
	return &rateLimitedEmbedding{EmbeddingService: svc, limiter: newLimiter(requestsPerMinute)}
}

// WithLLMRateLimit wraps svc when requestsPerMinute is positive.
func WithLLMRateLimit(svc driven.LLMService, requestsPerMinute int) driven.LLMService {
	if requestsPerMinute <= 0 {
		return svc
	}
	return &rateLimitedLLM{LLMService: svc, limiter: newLimiter(requestsPerMinute)}
}
