package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	localembed "github.com/custodia-labs/ragent/internal/adapters/driven/embedding/local"
	geminillm "github.com/custodia-labs/ragent/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/ragent/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  error
		wantDims int
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  domain.ErrConfiguration,
		},
		{
			name:     "local default model",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderLocal},
			wantDims: localembed.DefaultDimensions,
		},
		{
			name: "local dimension override",
			settings: &domain.EmbeddingSettings{
				Provider:   domain.AIProviderLocal,
				Dimensions: 128,
			},
			wantDims: 128,
		},
		{
			name: "ollama known model",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				Model:    "nomic-embed-text",
			},
			wantDims: 768,
		},
		{
			name: "openai with key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk-test",
				Model:    "text-embedding-3-small",
			},
			wantDims: 1536,
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  domain.ErrMissingCredential,
		},
		{
			name:     "gemini without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderGemini},
			wantErr:  domain.ErrMissingCredential,
		},
		{
			name:     "groq has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderGroq},
			wantErr:  domain.ErrUnknownProvider,
		},
		{
			name:     "unknown provider",
			settings: &domain.EmbeddingSettings{Provider: "cohere"},
			wantErr:  domain.ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			defer svc.Close()
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateEmbeddingService_RateLimitWrapsRemoteOnly(t *testing.T) {
	ctx := context.Background()

	local, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
		Provider:          domain.AIProviderLocal,
		RequestsPerMinute: 10,
	})
	require.NoError(t, err)
	_, wrapped := local.(*rateLimitedEmbedding)
	assert.False(t, wrapped)

	remote, err := CreateEmbeddingService(ctx, &domain.EmbeddingSettings{
		Provider:          domain.AIProviderOllama,
		RequestsPerMinute: 10,
	})
	require.NoError(t, err)
	_, wrapped = remote.(*rateLimitedEmbedding)
	assert.True(t, wrapped)
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantErr   error
		wantModel string
	}{
		{
			name:    "nil settings",
			wantErr: domain.ErrConfiguration,
		},
		{
			name: "groq default model",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderGroq,
				APIKey:   "gsk_test",
			},
			wantModel: "llama-3.3-70b-versatile",
		},
		{
			name:     "groq without key",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGroq},
			wantErr:  domain.ErrMissingCredential,
		},
		{
			name: "openai explicit model",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk-test",
				Model:    "gpt-4o",
			},
			wantModel: "gpt-4o",
		},
		{
			name:     "anthropic without key",
			settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic},
			wantErr:  domain.ErrMissingCredential,
		},
		{
			name:     "gemini without key",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGemini},
			wantErr:  domain.ErrMissingCredential,
		},
		{
			name:      "ollama needs no key",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama},
			wantModel: "llama3.2",
		},
		{
			name:     "local is not an llm",
			settings: &domain.LLMSettings{Provider: domain.AIProviderLocal},
			wantErr:  domain.ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateLLMService_GeminiTimeout(t *testing.T) {
	svc, err := CreateLLMService(context.Background(), &domain.LLMSettings{
		Provider:       domain.AIProviderGemini,
		APIKey:         "AIza-test",
		TimeoutSeconds: 7,
	})
	require.NoError(t, err)
	defer svc.Close()

	gemini, ok := svc.(*geminillm.LLMService)
	require.True(t, ok)
	assert.Equal(t, 7*time.Second, gemini.Timeout())
}

func TestCreateLLMService_MissingGroqKeyNamesVariable(t *testing.T) {
	_, err := CreateLLMService(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderGroq})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestValidateEmbeddingConfig_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	err := ValidateEmbeddingConfig(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})

	assert.NoError(t, err)
}

func TestValidateLLMConfig_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := ValidateLLMConfig(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})

	assert.ErrorIs(t, err, domain.ErrRemoteService)
}

func TestValidateEmbeddingConfig_Local(t *testing.T) {
	err := ValidateEmbeddingConfig(context.Background(), &domain.EmbeddingSettings{Provider: domain.AIProviderLocal})

	assert.NoError(t, err)
}
