// Package app is the composition root. It builds adapters from settings
// and exposes them to the CLI as driving services.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ragent/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragent/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ragent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragent/internal/adapters/driven/storage"
	"github.com/custodia-labs/ragent/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragent/internal/connectors/filesystem"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/core/services"
	"github.com/custodia-labs/ragent/internal/logger"
	"github.com/custodia-labs/ragent/internal/normalisers"
	"github.com/custodia-labs/ragent/internal/normalisers/markdown"
	"github.com/custodia-labs/ragent/internal/normalisers/pdf"
	"github.com/custodia-labs/ragent/internal/normalisers/plaintext"
	"github.com/custodia-labs/ragent/internal/postprocessors/chunker"
)

// Ensure App implements the CLI backend.
var _ cli.Backend = (*App)(nil)

// Config holds what the entry point read from the environment.
type Config struct {
	// Env carries credentials and the configuration directory.
	Env *env.Env

	// EnvFile is where set-key stores credentials.
	EnvFile string
}

// App builds pipeline services on demand from persisted settings.
type App struct {
	env      *env.Env
	envFile  string
	settings *services.SettingsService
	prompts  *file.PromptStore
	registry *normalisers.Registry
}

// New creates the application from cfg.
func New(cfg Config) (*App, error) {
	e := cfg.Env
	if e == nil {
		e = &env.Env{}
	}
	home := e.Home
	if home == "" {
		home = file.DefaultDir
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	return &App{
		env:      e,
		envFile:  cfg.EnvFile,
		settings: services.NewSettingsService(configStore),
		prompts:  file.NewPromptStore(filepath.Join(home, "prompts")),
		registry: normalisers.NewRegistry(plaintext.New(), markdown.New(), pdf.New()),
	}, nil
}

// resolved returns validated settings with credentials applied.
func (a *App) resolved() (*domain.Settings, error) {
	s, err := a.settings.Get()
	if err != nil {
		return nil, err
	}
	a.env.Apply(s)
	return s, nil
}

// Settings returns the settings service.
func (a *App) Settings() driving.SettingsService {
	return a.settings
}

// Status returns a status service for the current settings.
func (a *App) Status() (driving.StatusService, error) {
	s, err := a.resolved()
	if err != nil {
		return nil, err
	}
	return services.NewStatusService(s, storage.NewFactory(s.Store), ai.NewConfigValidator()), nil
}

// OpenIngest builds the ingestion pipeline over a writable store.
func (a *App) OpenIngest(ctx context.Context) (driving.IngestService, func() error, error) {
	s, err := a.resolved()
	if err != nil {
		return nil, nil, err
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(s.Chunking.Size),
		chunker.WithOverlap(s.Chunking.Overlap),
	)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := ai.CreateEmbeddingService(ctx, &s.Embedding)
	if err != nil {
		return nil, nil, fmt.Errorf("create embedder: %w", err)
	}

	store, err := storage.NewFactory(s.Store).OpenForIngest(ctx, embedder.Dimensions(), embedder.ModelName())
	if err != nil {
		embedder.Close()
		return nil, nil, fmt.Errorf("open vector store: %w", err)
	}
	logger.Debug("Embedder: %s (%d dims), store: %s", embedder.ModelName(), embedder.Dimensions(), store.Location())

	svc := services.NewIngestService(filesystem.NewLoader(a.registry), splitter, embedder, store)
	return svc, closeAll(store.Close, embedder.Close), nil
}

// OpenAsk builds the answer pipeline. The LLM is created first so a
// missing credential fails before any embedding or store work.
func (a *App) OpenAsk(ctx context.Context, topK int) (driving.AskService, func() error, error) {
	s, err := a.resolved()
	if err != nil {
		return nil, nil, err
	}

	llm, err := ai.CreateLLMService(ctx, &s.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("create LLM: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(ctx, &s.Embedding)
	if err != nil {
		llm.Close()
		return nil, nil, fmt.Errorf("create embedder: %w", err)
	}

	store, err := storage.NewFactory(s.Store).OpenForQuery(ctx, embedder.Dimensions(), embedder.ModelName())
	if err != nil {
		embedder.Close()
		llm.Close()
		return nil, nil, fmt.Errorf("open vector store: %w", err)
	}

	if topK <= 0 {
		topK = s.Retrieval.TopK
	}
	svc, err := services.NewAskService(embedder, store, llm, a.prompts, services.AskConfig{
		TopK:        topK,
		Temperature: s.LLM.Temperature,
	})
	closeFn := closeAll(store.Close, embedder.Close, llm.Close)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

// Watch reports batches of changed supported files in dir.
func (a *App) Watch(ctx context.Context, dir string) (<-chan []string, error) {
	return filesystem.NewWatcher(a.registry, filesystem.DefaultDebounce).Watch(ctx, dir)
}

// DocumentsDir returns the configured documents directory.
func (a *App) DocumentsDir() string {
	s, err := a.settings.Get()
	if err != nil {
		return domain.DefaultSettings().Documents.Dir
	}
	return s.Documents.Dir
}

// SaveKey stores a provider credential in the .env file.
func (a *App) SaveKey(provider domain.AIProvider, key string) error {
	return env.SaveKey(a.envFile, provider, key)
}

// WritePrompts writes missing default prompt files.
func (a *App) WritePrompts() ([]string, error) {
	return a.prompts.WriteDefaults()
}

func closeAll(fns ...func() error) func() error {
	return func() error {
		var errs []error
		for _, fn := range fns {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
