// Package env reads process configuration from the environment and .env files.
// It is only used by the entry point; core packages receive explicit settings.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// DefaultEnvFile is the dotenv file read at startup and written by set-key.
const DefaultEnvFile = ".env"

// Env holds everything ragent reads from the process environment.
type Env struct {
	// Home is the configuration directory (config.toml, prompts/).
	Home string `envconfig:"RAGENT_HOME" default:".ragent"`

	// Verbose enables debug logging without the --verbose flag.
	Verbose bool `envconfig:"RAGENT_VERBOSE" default:"false"`

	GroqAPIKey      string `envconfig:"GROQ_API_KEY"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GoogleAPIKey    string `envconfig:"GOOGLE_API_KEY"`
	WeaviateAPIKey  string `envconfig:"WEAVIATE_API_KEY"`
}

// Load reads envFile (if present) into the process environment and then
// decodes the environment. Variables already set in the shell win.
func Load(envFile string) (*Env, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConfiguration, envFile, err)
	}

	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return &e, nil
}

// KeyVar returns the environment variable holding the provider's API key.
// Empty for providers that do not use one.
func KeyVar(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGroq:
		return "GROQ_API_KEY"
	case domain.AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case domain.AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case domain.AIProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// APIKey returns the credential for provider, or "" if none is set.
func (e *Env) APIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGroq:
		return e.GroqAPIKey
	case domain.AIProviderOpenAI:
		return e.OpenAIAPIKey
	case domain.AIProviderAnthropic:
		return e.AnthropicAPIKey
	case domain.AIProviderGemini:
		if e.GeminiAPIKey != "" {
			return e.GeminiAPIKey
		}
		return e.GoogleAPIKey
	default:
		return ""
	}
}

// Apply copies credentials for the configured providers into settings.
func (e *Env) Apply(s *domain.Settings) {
	s.LLM.APIKey = e.APIKey(s.LLM.Provider)
	s.Embedding.APIKey = e.APIKey(s.Embedding.Provider)
	s.Store.WeaviateAPIKey = e.WeaviateAPIKey
}

// SaveKey stores provider's key in envFile, preserving other entries.
// The file is created with owner-only permissions.
func SaveKey(envFile string, provider domain.AIProvider, key string) error {
	name := KeyVar(provider)
	if name == "" {
		return fmt.Errorf("%w: %s does not use an API key", domain.ErrInvalidSetting, provider)
	}
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", envFile, err)
		}
		values = make(map[string]string)
	}
	values[name] = key

	if err := godotenv.Write(values, envFile); err != nil {
		return fmt.Errorf("write %s: %w", envFile, err)
	}
	return os.Chmod(envFile, 0600)
}
