package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// keyIssuers maps well-known key prefixes to who issues them.
// More specific prefixes come first.
var keyIssuers = []struct {
	prefix string
	issuer string
}{
	{"gsk_", "Groq"},
	{"xai-", "xAI"},
	{"sk-ant-", "Anthropic"},
	{"sk-", "OpenAI"},
	{"AIza", "Google"},
}

// StatusService reports pipeline diagnostics.
type StatusService struct {
	settings  *domain.Settings
	stores    driven.VectorStoreFactory
	validator driven.AIConfigValidator
}

// NewStatusService creates a new status service.
// settings must already carry the credentials read from the environment.
func NewStatusService(
	settings *domain.Settings,
	stores driven.VectorStoreFactory,
	validator driven.AIConfigValidator,
) *StatusService {
	return &StatusService{
		settings:  settings,
		stores:    stores,
		validator: validator,
	}
}

// Status collects settings, credential and store diagnostics.
func (s *StatusService) Status(ctx context.Context) (*domain.Status, error) {
	store, err := s.stores.Inspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect store: %w", err)
	}

	settings := *s.settings
	settings.LLM.APIKey = ""
	settings.Embedding.APIKey = ""
	settings.Store.WeaviateAPIKey = ""

	return &domain.Status{
		Settings:   settings,
		Credential: DiagnoseCredential(s.settings.LLM.Provider, s.settings.LLM.APIKey),
		Store:      *store,
	}, nil
}

// CheckConnectivity pings the configured embedder and LLM.
func (s *StatusService) CheckConnectivity(ctx context.Context) (embeddingErr, llmErr error) {
	if s.validator == nil {
		err := fmt.Errorf("%w: no validator configured", domain.ErrConfiguration)
		return err, err
	}
	embeddingErr = s.validator.ValidateEmbedding(ctx, &s.settings.Embedding)
	llmErr = s.validator.ValidateLLM(ctx, &s.settings.LLM)
	return embeddingErr, llmErr
}

// DiagnoseCredential describes key for provider without exposing it.
func DiagnoseCredential(provider domain.AIProvider, key string) domain.CredentialStatus {
	status := domain.CredentialStatus{
		Provider: provider,
		Required: provider.RequiresAPIKey(),
		Present:  key != "",
		Masked:   MaskKey(key),
	}

	switch {
	case !status.Required:
	case !status.Present:
		status.Warning = fmt.Sprintf("no API key set for %s", provider)
	default:
		status.Warning = prefixWarning(provider, key)
	}
	return status
}

// prefixWarning flags keys that look like they belong to another provider.
func prefixWarning(provider domain.AIProvider, key string) string {
	expected := provider.KeyPrefix()
	if expected == "" {
		return ""
	}

	for _, ki := range keyIssuers {
		if !strings.HasPrefix(key, ki.prefix) {
			continue
		}
		if ki.prefix == expected {
			return ""
		}
		return fmt.Sprintf("key starts with %q, which looks like a %s key; %s keys start with %q",
			ki.prefix, ki.issuer, provider, expected)
	}

	if !strings.HasPrefix(key, expected) {
		return fmt.Sprintf("%s keys start with %q", provider, expected)
	}
	return ""
}

// MaskKey renders key for display, keeping only its ends.
func MaskKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	default:
		return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
	}
}
