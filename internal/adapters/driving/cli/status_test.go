package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

func TestStatus_BuiltIndex(t *testing.T) {
	b := newFakeBackend()
	b.status.status = &domain.Status{
		Settings: domain.DefaultSettings(),
		Credential: domain.CredentialStatus{
			Provider: domain.AIProviderGroq,
			Required: true,
			Present:  true,
			Masked:   "xai-****wxyz",
			Warning:  "this looks like an xAI key, groq keys start with \"gsk_\"",
		},
		Store: domain.StoreStatus{
			Backend:    domain.StoreBackendSQLite,
			Location:   "ragent_db/vectors.db",
			Exists:     true,
			Entries:    12,
			Dimensions: 384,
			Model:      "local-hash",
		},
	}

	out, err := execute(t, b, "", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "groq: xai-****wxyz")
	assert.Contains(t, out, "Warning: this looks like an xAI key")
	assert.Contains(t, out, "Location:   ragent_db/vectors.db")
	assert.Contains(t, out, "Entries:    12")
	assert.Contains(t, out, "Dimensions: 384")
	assert.NotContains(t, out, "[Connectivity]")
}

func TestStatus_MissingIndexAndKey(t *testing.T) {
	b := newFakeBackend()
	b.status.status.Credential = domain.CredentialStatus{Provider: domain.AIProviderGroq, Required: true}

	out, err := execute(t, b, "", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "groq: (not set)")
	assert.Contains(t, out, "not built yet")
}

func TestStatus_CheckReportsFailure(t *testing.T) {
	b := newFakeBackend()
	b.status.llmErr = domain.ErrAuthFailed

	out, err := execute(t, b, "", "status", "--check")

	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Contains(t, out, "Embedding: OK")
	assert.Contains(t, out, "LLM:       FAIL")
}

func TestStatus_CheckOK(t *testing.T) {
	out, err := execute(t, newFakeBackend(), "", "status", "--check")

	require.NoError(t, err)
	assert.Contains(t, out, "[Connectivity]")
}
