package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// DefaultTopK is the number of chunks retrieved when AskConfig.TopK is unset.
const DefaultTopK = 5

// contextSeparator joins retrieved chunk texts in the system message.
const contextSeparator = "\n\n"

// AskConfig tunes the retrieval-answer pipeline.
type AskConfig struct {
	// TopK is the number of chunks passed to the LLM.
	TopK int

	// Temperature is forwarded to the LLM. Grounded answers use 0.
	Temperature float64
}

// AskService answers questions from the vector store with an LLM.
type AskService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	llm      driven.LLMService
	prompts  driven.PromptStore
	cfg      AskConfig
}

// NewAskService creates a new ask service. Every collaborator is required;
// the embedder must be the one the store was built with.
func NewAskService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg AskConfig,
) (*AskService, error) {
	switch {
	case llm == nil:
		return nil, fmt.Errorf("%w: no LLM configured", domain.ErrConfiguration)
	case embedder == nil:
		return nil, fmt.Errorf("%w: no embedder configured", domain.ErrConfiguration)
	case store == nil:
		return nil, fmt.Errorf("%w: no vector store configured", domain.ErrConfiguration)
	case prompts == nil:
		return nil, fmt.Errorf("%w: no prompt store configured", domain.ErrConfiguration)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	return &AskService{
		embedder: embedder,
		store:    store,
		llm:      llm,
		prompts:  prompts,
		cfg:      cfg,
	}, nil
}

// Ask returns the LLM's answer to question.
func (s *AskService) Ask(ctx context.Context, question string) (string, error) {
	answer, err := s.Answer(ctx, question)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

// Answer retrieves context for question, asks the LLM once and returns
// its reply unmodified together with the chunks it was given.
func (s *AskService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Ask")

	sources, err := s.Retrieve(ctx, question, s.cfg.TopK)
	if err != nil {
		return nil, err
	}

	instruction, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: instruction + contextSeparator + joinContext(sources)},
		{Role: driven.RoleUser, Content: question},
	}

	logger.Debug("Calling %s with %d context chunks", s.llm.ModelName(), len(sources))
	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: s.cfg.Temperature})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{Text: text, Sources: sources}, nil
}

// Retrieve embeds question and returns the k most similar chunks.
func (s *AskService) Retrieve(ctx context.Context, question string, k int) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if k <= 0 {
		k = s.cfg.TopK
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := s.store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	logger.Debug("Retrieved %d chunks (k=%d)", len(results), k)
	for i, r := range results {
		logger.Debug("  %d. %.4f %s", i+1, r.Score, r.Chunk.Metadata.SourcePath)
	}
	return results, nil
}

// joinContext concatenates chunk texts in the order they were retrieved.
func joinContext(chunks []domain.ScoredChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Chunk.Text
	}
	return strings.Join(texts, contextSeparator)
}
