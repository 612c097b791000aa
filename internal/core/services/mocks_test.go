package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	docs    []domain.Document
	err     error
	loadDir string
	paths   []string
}

func (m *mockLoader) Load(_ context.Context, dir string) ([]domain.Document, error) {
	m.loadDir = dir
	return m.docs, m.err
}

func (m *mockLoader) LoadFiles(_ context.Context, paths []string) ([]domain.Document, error) {
	m.paths = paths
	return m.docs, m.err
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are derived from text length so different texts differ.
type mockEmbeddingService struct {
	dims       int
	embedErr   error
	batchSizes []int
	embedCalls int
	vectorFor  func(text string) []float32
	shortBy    int
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if m.vectorFor != nil {
		return m.vectorFor(text)
	}
	v := make([]float32, m.Dimensions())
	v[0] = 1
	v[len(text)%len(v)] += float32(len(text))
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := m.vector(t)
		out[i] = v[:len(v)-m.shortBy]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 8
}

func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService and records what it was sent.
type mockLLMService struct {
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found: " + name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockStoreFactory implements driven.VectorStoreFactory for testing.
type mockStoreFactory struct {
	status *domain.StoreStatus
	err    error
}

func (m *mockStoreFactory) OpenForIngest(_ context.Context, _ int, _ string) (driven.VectorStore, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStoreFactory) OpenForQuery(_ context.Context, _ int, _ string) (driven.VectorStore, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStoreFactory) Inspect(_ context.Context) (*domain.StoreStatus, error) {
	return m.status, m.err
}

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	embeddingErr error
	llmErr       error
	llmProvider  domain.AIProvider
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ context.Context, _ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ context.Context, cfg *domain.LLMSettings) error {
	m.llmProvider = cfg.Provider
	return m.llmErr
}

// failingStore wraps a store and fails every Add.
type failingStore struct {
	driven.VectorStore
	err error
}

func (f *failingStore) Add(_ context.Context, _ []domain.IndexedEntry) error {
	return f.err
}
