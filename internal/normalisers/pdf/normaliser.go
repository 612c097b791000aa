// Package pdf extracts text from PDF files, one Document per page.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/logger"
	"github.com/custodia-labs/ragent/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrCorruptPDF indicates the file could not be parsed as a PDF.
var ErrCorruptPDF = errors.New("corrupt or unsupported PDF")

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Normalise extracts the plain text of every page. Pages are numbered
// from 1; pages with no extractable text are skipped.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (docs []domain.Document, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The decoder panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: %v", ErrCorruptPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPDF, err)
	}

	title := normalisers.TitleFromPath(raw.Path)
	pages := reader.NumPage()
	docs = make([]domain.Document, 0, pages)

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrCorruptPDF, i, err)
		}
		if strings.TrimSpace(text) == "" {
			logger.Debug("pdf: %s page %d has no text, skipping", raw.Path, i)
			continue
		}

		docs = append(docs, domain.Document{
			ID:   uuid.New().String(),
			Text: text,
			Metadata: domain.Metadata{
				SourcePath: raw.Path,
				Page:       i,
				Title:      title,
			},
		})
	}

	return docs, nil
}
