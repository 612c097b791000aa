// Package filesystem loads documents from a local directory and watches it
// for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads supported files from a directory and decodes them with
// the normaliser registry. Only the top level of the directory is scanned.
type Loader struct {
	registry driven.NormaliserRegistry
}

// NewLoader creates a loader backed by registry.
func NewLoader(registry driven.NormaliserRegistry) *Loader {
	return &Loader{registry: registry}
}

// Load scans dir in file name order. A missing directory yields no
// documents. The first file that fails to read or decode aborts the load.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("loader: %s does not exist, nothing to load", dir)
			return nil, nil
		}
		return nil, domain.NewFileError(dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) {
			continue
		}

		path := filepath.Join(dir, name)
		if !l.registry.Supports(path) {
			logger.Debug("loader: skipping unsupported file %s", path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileError(path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}

	return l.LoadFiles(ctx, paths)
}

// LoadFiles decodes the given files in order, skipping unsupported ones.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]domain.Document, error) {
	var docs []domain.Document

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !l.registry.Supports(path) {
			logger.Debug("loader: skipping unsupported file %s", path)
			continue
		}

		loaded, err := l.loadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loader: %s -> %d document(s)", path, len(loaded))
		docs = append(docs, loaded...)
	}

	return docs, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileError(path, err)
	}

	docs, err := l.registry.Normalise(ctx, &domain.RawDocument{
		Path:     path,
		MIMEType: mimeTypeFor(path),
		Content:  content,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.NewFileError(path, fmt.Errorf("decode: %w", err))
	}
	return docs, nil
}

// isHidden returns true for dotfiles and editor swap files.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
