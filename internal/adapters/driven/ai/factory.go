// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/ragent/internal/adapters/driven/embedding/gemini"
	localembed "github.com/custodia-labs/ragent/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/ragent/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragent/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/ragent/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/ragent/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/ragent/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragent/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings.
// Remote providers are rate limited when RequestsPerMinute is set.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: embedding settings missing", domain.ErrConfiguration)
	}

	var (
		svc driven.EmbeddingService
		err error
	)

	switch settings.Provider {
	case domain.AIProviderLocal:
		return localembed.NewEmbeddingService(localembed.Config{
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings, localembed.DefaultDimensions),
		}), nil

	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings, ollamaembed.DefaultDimensions),
		})

	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.AIProviderGemini:
		svc, err = geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings, geminiembed.DefaultDimensions),
		})

	default:
		return nil, fmt.Errorf("%w: %q does not provide embeddings", domain.ErrUnknownProvider, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithEmbeddingRateLimit(svc, settings.RequestsPerMinute), nil
}

// CreateLLMService creates the LLM selected by settings.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: llm settings missing", domain.ErrConfiguration)
	}

	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	model := settings.Model
	if model == "" {
		model = domain.DefaultLLMModels()[settings.Provider]
	}

	var (
		svc driven.LLMService
		err error
	)

	switch settings.Provider {
	case domain.AIProviderGroq:
		svc, err = openaillm.NewLLMService(openaillm.Config{
			Provider: string(domain.AIProviderGroq),
			APIKey:   settings.APIKey,
			KeyVar:   "GROQ_API_KEY",
			BaseURL:  orDefault(settings.BaseURL, openaillm.GroqBaseURL),
			Model:    model,
			Timeout:  timeout,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.Config{
			Provider: string(domain.AIProviderOpenAI),
			APIKey:   settings.APIKey,
			KeyVar:   "OPENAI_API_KEY",
			BaseURL:  orDefault(settings.BaseURL, openaillm.OpenAIBaseURL),
			Model:    model,
			Timeout:  timeout,
		})

	case domain.AIProviderAnthropic:
		svc, err = anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
			Timeout: timeout,
		})

	case domain.AIProviderGemini:
		svc, err = geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			Model:   model,
			Timeout: timeout,
		})

	case domain.AIProviderOllama:
		svc = ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("%w: %q is not an LLM provider", domain.ErrUnknownProvider, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithLLMRateLimit(svc, settings.RequestsPerMinute), nil
}

// ValidateEmbeddingConfig creates the embedding service and pings it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig creates the LLM service and pings it.
// Pinging lists models; it never generates text.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// embeddingDimensions prefers an explicit override, then the known size
// of the model, then fallback.
func embeddingDimensions(settings *domain.EmbeddingSettings, fallback int) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	if d, ok := domain.EmbeddingDimensions()[settings.Model]; ok {
		return d
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
