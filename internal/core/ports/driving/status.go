package driving

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// StatusService reports diagnostics about the configured pipeline.
type StatusService interface {
	// Status collects settings, credential and store diagnostics.
	// It never calls the LLM.
	Status(ctx context.Context) (*domain.Status, error)

	// CheckConnectivity pings the configured embedder and LLM.
	CheckConnectivity(ctx context.Context) (embeddingErr, llmErr error)
}
