// Package openai provides an LLM service adapter for OpenAI-compatible chat
// completion APIs. It serves both OpenAI and Groq.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/custodia-labs/ragent/internal/adapters/driven/remote"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Base URLs of the supported providers.
const (
	OpenAIBaseURL = "https://api.openai.com/v1/"
	GroqBaseURL   = "https://api.groq.com/openai/v1/"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for an OpenAI-compatible LLM service.
type Config struct {
	// Provider names the service in errors (e.g. "groq", "openai").
	Provider string

	// APIKey is the provider credential (required).
	APIKey string

	// KeyVar is the environment variable the key is read from, used in
	// the missing-credential message.
	KeyVar string

	// BaseURL is the API base URL.
	BaseURL string

	// Model is the chat model to use (required).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// LLMService sends chat completions to an OpenAI-compatible API.
// Requests are never retried.
type LLMService struct {
	client   openai.Client
	provider string
	model    string
}

// NewLLMService creates a new OpenAI-compatible LLM service.
// An empty API key is a configuration error; no client is created.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.APIKey == "" {
		return nil, remote.MissingCredential(cfg.Provider, cfg.KeyVar)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenAIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	)

	return &LLMService{client: client, provider: cfg.Provider, model: cfg.Model}, nil
}

// Chat sends one completion request and returns the first choice verbatim.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.model),
		Messages:    toParams(messages),
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", s.mapError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", remote.EmptyResponse(s.provider)
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return remote.StatusError(s.provider, apiErr.StatusCode, []byte(apiErr.Message))
	}
	return remote.TransportError(s.provider, err)
}

func toParams(messages []driven.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case driven.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case driven.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
