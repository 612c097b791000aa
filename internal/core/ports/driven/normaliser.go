package driven

import (
	"context"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

// Normaliser decodes one file format into Documents.
// Each normaliser handles a fixed set of file extensions.
type Normaliser interface {
	// SupportedExtensions returns the lower-cased extensions this
	// normaliser handles, including the dot (e.g. ".pdf").
	SupportedExtensions() []string

	// Normalise decodes the raw bytes. Paginated formats return one
	// Document per page; everything else returns exactly one.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error)
}

// NormaliserRegistry selects the normaliser for a file by extension.
type NormaliserRegistry interface {
	// Normalise decodes raw with the normaliser registered for its extension.
	// Returns domain.ErrInvalidInput wrapped if no normaliser matches.
	Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Supports reports whether a file with the given path can be normalised.
	Supports(path string) bool

	// SupportedExtensions returns all extensions that can be normalised.
	SupportedExtensions() []string
}
