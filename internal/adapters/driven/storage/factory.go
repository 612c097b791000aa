// Package storage selects and opens the configured vector store backend.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/weaviate"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/logger"
)

// Ensure Factory implements the interface.
var _ driven.VectorStoreFactory = (*Factory)(nil)

// Factory opens vector stores according to StoreSettings.
type Factory struct {
	settings domain.StoreSettings
}

// NewFactory creates a factory for the given store settings.
func NewFactory(settings domain.StoreSettings) *Factory {
	return &Factory{settings: settings}
}

// OpenForIngest opens the store for writing, creating it if needed.
func (f *Factory) OpenForIngest(ctx context.Context, dimensions int, model string) (driven.VectorStore, error) {
	switch f.settings.Backend {
	case domain.StoreBackendSQLite:
		return sqlite.NewStore(f.settings.Dir, dimensions, model)
	case domain.StoreBackendWeaviate:
		return weaviate.NewStore(ctx, f.weaviateConfig(), dimensions, model)
	case domain.StoreBackendMemory:
		return memory.NewVectorStore(dimensions), nil
	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrUnknownProvider, f.settings.Backend)
	}
}

// OpenForQuery opens the store for reading. A sqlite store that has never
// been built is replaced by an empty in-memory store; a missing weaviate
// class is created empty.
func (f *Factory) OpenForQuery(ctx context.Context, dimensions int, model string) (driven.VectorStore, error) {
	switch f.settings.Backend {
	case domain.StoreBackendSQLite:
		if !sqlite.Exists(f.settings.Dir) {
			logger.Warn("empty store created: no index at %s, run 'ragent ingest' first", f.settings.Dir)
			return memory.NewVectorStore(dimensions), nil
		}
	case domain.StoreBackendWeaviate:
		store, err := weaviate.NewStore(ctx, f.weaviateConfig(), dimensions, model)
		if err != nil {
			return nil, err
		}
		if store.Created() {
			logger.Warn("empty store created: no index at %s, run 'ragent ingest' first", store.Location())
		}
		return store, nil
	}
	return f.OpenForIngest(ctx, dimensions, model)
}

// Inspect describes the configured store.
func (f *Factory) Inspect(ctx context.Context) (*domain.StoreStatus, error) {
	switch f.settings.Backend {
	case domain.StoreBackendSQLite:
		return sqlite.Inspect(ctx, f.settings.Dir)
	case domain.StoreBackendWeaviate:
		return weaviate.Inspect(ctx, f.weaviateConfig())
	case domain.StoreBackendMemory:
		return &domain.StoreStatus{Backend: domain.StoreBackendMemory, Location: memory.Location}, nil
	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrUnknownProvider, f.settings.Backend)
	}
}

func (f *Factory) weaviateConfig() weaviate.Config {
	return weaviate.Config{
		Host:   f.settings.WeaviateHost,
		Scheme: f.settings.WeaviateScheme,
		Class:  f.settings.WeaviateClass,
		APIKey: f.settings.WeaviateAPIKey,
	}
}
