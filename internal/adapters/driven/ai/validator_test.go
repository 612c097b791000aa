package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	require.NotNil(t, NewConfigValidator())
}

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(context.Background(),
		&domain.EmbeddingSettings{Provider: domain.AIProviderLocal}))
	assert.ErrorIs(t, validator.ValidateEmbedding(context.Background(), nil), domain.ErrConfiguration)
	assert.ErrorIs(t, validator.ValidateEmbedding(context.Background(),
		&domain.EmbeddingSettings{Provider: "unknown"}), domain.ErrUnknownProvider)
}

func TestConfigValidator_ValidateLLM_MissingKey(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateLLM(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderAnthropic})

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
