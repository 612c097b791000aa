package domain

import (
	"fmt"
	"slices"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in offline embedder.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI,
		AIProviderGroq, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGroq, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderLocal || p == AIProviderOllama
}

// KeyPrefix returns the prefix API keys for this provider are issued with.
// Empty for providers without keys.
func (p AIProvider) KeyPrefix() string {
	switch p {
	case AIProviderGroq:
		return "gsk_"
	case AIProviderOpenAI:
		return "sk-"
	case AIProviderAnthropic:
		return "sk-ant-"
	case AIProviderGemini:
		return "AIza"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (built-in, offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// StoreBackend identifies a vector store implementation.
type StoreBackend string

// Available vector store backends.
const (
	// StoreBackendSQLite persists vectors in a local SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendWeaviate stores vectors in a Weaviate server.
	StoreBackendWeaviate StoreBackend = "weaviate"

	// StoreBackendMemory keeps vectors in process memory only.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendWeaviate, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// DocumentSettings configures where documents are read from.
type DocumentSettings struct {
	// Dir is the documents directory scanned by ingest.
	Dir string
}

// StoreSettings configures the vector store.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// Dir is the on-disk location for the sqlite backend.
	Dir string

	// WeaviateHost is host:port of the Weaviate server.
	WeaviateHost string

	// WeaviateScheme is http or https.
	WeaviateScheme string

	// WeaviateClass is the class chunks are stored under.
	WeaviateClass string

	// WeaviateAPIKey authenticates against Weaviate Cloud. Optional.
	WeaviateAPIKey string
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// Size is the maximum number of characters per chunk.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// Validate checks size and overlap are consistent.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunking, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidChunking, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			ErrInvalidChunking, c.Overlap, c.Size)
	}
	return nil
}

// RetrievalSettings configures the query path.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// Dimensions overrides the model's vector size when non-zero.
	Dimensions int

	// RequestsPerMinute throttles remote calls. Zero disables throttling.
	RequestsPerMinute int

	// APIKey is the provider credential. Never persisted to config.toml.
	APIKey string
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// Temperature controls randomness. Answers use 0.
	Temperature float64

	// TimeoutSeconds bounds a single LLM request.
	TimeoutSeconds int

	// RequestsPerMinute throttles remote calls. Zero disables throttling.
	RequestsPerMinute int

	// APIKey is the provider credential. Never persisted to config.toml.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Settings holds all application settings. It is built once by the
// entry point and passed explicitly into constructors.
type Settings struct {
	Documents DocumentSettings
	Store     StoreSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
}

// Validate checks the settings are internally consistent.
// Credentials are not checked here; adapters reject missing keys at construction.
func (s Settings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive, got %d", ErrInvalidSetting, s.Retrieval.TopK)
	}
	if !s.Store.Backend.IsValid() {
		return fmt.Errorf("%w: store backend %q", ErrUnknownProvider, s.Store.Backend)
	}
	if !isEmbeddingProvider(s.Embedding.Provider) {
		return fmt.Errorf("%w: embedding provider %q", ErrUnknownProvider, s.Embedding.Provider)
	}
	if !isLLMProvider(s.LLM.Provider) {
		return fmt.Errorf("%w: llm provider %q", ErrUnknownProvider, s.LLM.Provider)
	}
	return nil
}

// DefaultSettings returns settings with sensible defaults: offline
// embeddings, a local sqlite store and Groq for answers.
func DefaultSettings() Settings {
	return Settings{
		Documents: DocumentSettings{
			Dir: "data",
		},
		Store: StoreSettings{
			Backend:        StoreBackendSQLite,
			Dir:            "ragent_db",
			WeaviateHost:   "localhost:8080",
			WeaviateScheme: "http",
			WeaviateClass:  "RagentChunk",
		},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalSettings{
			TopK: 5,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
			Model:    DefaultEmbeddingModels()[AIProviderLocal],
		},
		LLM: LLMSettings{
			Provider:       AIProviderGroq,
			Model:          DefaultLLMModels()[AIProviderGroq],
			Temperature:    0,
			TimeoutSeconds: 60,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGroq,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hash-minilm-384",
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:      "llama-3.3-70b-versatile",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Built-in
		"hash-minilm-384": 384,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}

func isEmbeddingProvider(p AIProvider) bool {
	return slices.Contains(AllEmbeddingProviders(), p)
}

func isLLMProvider(p AIProvider) bool {
	return slices.Contains(AllLLMProviders(), p)
}
