// Package gemini provides an LLM service adapter using the Gemini API.
package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/ragent/internal/adapters/driven/remote"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

const provider = "gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the LLM model to use (default: gemini-1.5-flash).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Options are extra client options, e.g. a custom endpoint.
	Options []option.ClientOption
}

// LLMService provides LLM operations using Gemini.
type LLMService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewLLMService creates a new Gemini LLM service.
// An empty API key is a configuration error; no client is created.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, remote.MissingCredential(provider, "GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, cfg.Options...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, remote.TransportError(provider, err)
	}
	return &LLMService{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Chat sends the conversation as one chat session. System messages become
// the model's system instruction; the last message is the one sent.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	system, history, last := splitMessages(messages)
	if last == nil {
		return "", remote.EmptyResponse(provider)
	}

	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(float32(opts.Temperature))
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	session.History = history

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := session.SendMessage(ctx, last...)
	if err != nil {
		return "", remote.TransportError(provider, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", remote.EmptyResponse(provider)
	}
	return text, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Timeout returns the per-request timeout.
func (s *LLMService) Timeout() time.Duration {
	return s.timeout
}

// Ping fetches the model's metadata, which validates the key.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.GenerativeModel(s.model).Info(ctx); err != nil {
		return remote.TransportError(provider, err)
	}
	return nil
}

// Close releases the client connection.
func (s *LLMService) Close() error {
	return s.client.Close()
}

// splitMessages separates system text, prior turns and the final user parts.
func splitMessages(messages []driven.ChatMessage) (string, []*genai.Content, []genai.Part) {
	var system []string
	var turns []*genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = append(system, msg.Content)
		case driven.RoleAssistant:
			turns = append(turns, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			turns = append(turns, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	if len(turns) == 0 {
		return strings.Join(system, "\n\n"), nil, nil
	}
	last := turns[len(turns)-1]
	return strings.Join(system, "\n\n"), turns[:len(turns)-1], last.Parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
