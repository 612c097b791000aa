package driving

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// AskService answers questions from the indexed documents.
type AskService interface {
	// Ask returns the LLM's answer to question, unmodified.
	Ask(ctx context.Context, question string) (string, error)

	// Answer is Ask plus the chunks that were passed as context.
	Answer(ctx context.Context, question string) (*domain.Answer, error)

	// Retrieve returns the k chunks most similar to question without
	// calling the LLM.
	Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredChunk, error)
}
