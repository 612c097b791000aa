// Package plaintext decodes UTF-8 text files.
package plaintext

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt"}
}

// Normalise converts a text file into exactly one Document.
// The text is kept verbatim apart from a leading byte order mark.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := normalisers.DecodeText(raw.Content)
	if err != nil {
		return nil, err
	}

	return []domain.Document{{
		ID:   uuid.New().String(),
		Text: text,
		Metadata: domain.Metadata{
			SourcePath: raw.Path,
			Title:      normalisers.TitleFromPath(raw.Path),
		},
	}}, nil
}
