package driving

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// IngestService builds the vector index from local documents.
type IngestService interface {
	// Ingest loads, chunks, embeds and stores every supported file in dir.
	// An empty or missing directory is a successful no-op.
	Ingest(ctx context.Context, dir string) (*domain.IngestReport, error)

	// IngestFiles does the same for an explicit list of files.
	IngestFiles(ctx context.Context, paths []string) (*domain.IngestReport, error)
}
