package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// EmbedBatchSize is the number of chunk texts sent per embedding request.
const EmbedBatchSize = 32

// IngestService runs the load, chunk, embed and store pipeline.
type IngestService struct {
	loader   driven.DocumentLoader
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	loader driven.DocumentLoader,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		loader:   loader,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
	}
}

// Ingest indexes every supported file in dir.
func (s *IngestService) Ingest(ctx context.Context, dir string) (*domain.IngestReport, error) {
	logger.Section("Ingest")
	logger.Debug("Documents directory: %s", dir)

	docs, err := s.loader.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return s.index(ctx, docs)
}

// IngestFiles indexes the given files.
func (s *IngestService) IngestFiles(ctx context.Context, paths []string) (*domain.IngestReport, error) {
	logger.Section("Ingest")
	logger.Debug("Files: %v", paths)

	docs, err := s.loader.LoadFiles(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return s.index(ctx, docs)
}

// index chunks, embeds and stores docs. Nothing is written unless every
// chunk was embedded with the expected vector length.
func (s *IngestService) index(ctx context.Context, docs []domain.Document) (*domain.IngestReport, error) {
	report := &domain.IngestReport{
		Files:     countFiles(docs),
		Documents: len(docs),
		Store:     s.store.Location(),
	}
	if len(docs) == 0 {
		logger.Info("No documents found")
		return report, nil
	}

	chunks := s.chunker.Split(docs)
	logger.Debug("Split %d documents into %d chunks", len(docs), len(chunks))
	if len(chunks) == 0 {
		return report, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	dims := s.store.Dimensions()
	entries := make([]domain.IndexedEntry, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != dims {
			return nil, fmt.Errorf("%w: chunk %d of %s has %d dimensions, store expects %d",
				domain.ErrDimensionMismatch, i, c.Metadata.SourcePath, len(vectors[i]), dims)
		}
		entries[i] = domain.IndexedEntry{Vector: vectors[i], Chunk: c}
	}

	if err := s.store.Add(ctx, entries); err != nil {
		return nil, fmt.Errorf("store entries: %w", err)
	}

	report.Chunks = len(entries)
	logger.Info("Indexed %d chunks from %d files into %s", report.Chunks, report.Files, report.Store)
	return report, nil
}

// embedAll embeds texts in batches of EmbedBatchSize, preserving order.
func (s *IngestService) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += EmbedBatchSize {
		end := min(start+EmbedBatchSize, len(texts))
		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts",
				domain.ErrRemoteService, len(batch), end-start)
		}
		logger.Debug("Embedded chunks %d-%d", start, end-1)
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func countFiles(docs []domain.Document) int {
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		seen[d.Metadata.SourcePath] = struct{}{}
	}
	return len(seen)
}
