// Package markdown decodes Markdown files.
package markdown

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise converts a Markdown file into exactly one Document.
// The source is kept as-is: headings and list markers carry structure
// the chunker uses as paragraph boundaries.
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
			Title:      extractMarkdownTitle(text, raw.Path),
		},
	}}, nil
}

// extractMarkdownTitle returns the first H1 heading, or a title derived
// from the file name.
func extractMarkdownTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return normalisers.TitleFromPath(path)
}
