package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to normalisers by file extension.
// A later registration for the same extension replaces the earlier one.
type Registry struct {
	mu          sync.RWMutex
	byExtension map[string]driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExtension: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range normaliser.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = normaliser
	}
}

// Supports reports whether a file with the given path can be normalised.
func (r *Registry) Supports(path string) bool {
	_, ok := r.lookup(strings.ToLower(filepath.Ext(path)))
	return ok
}

// SupportedExtensions returns all extensions that can be normalised, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Normalise decodes raw with the normaliser registered for its extension.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n, ok := r.lookup(raw.Extension())
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrInvalidInput, raw.Extension())
	}
	return n.Normalise(ctx, raw)
}

func (r *Registry) lookup(ext string) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byExtension[ext]
	return n, ok
}

// TitleFromPath derives a human-readable title from a file name.
func TitleFromPath(path string) string {
	filename := filepath.Base(path)

	// Remove the extension for a cleaner title
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// DecodeText validates raw bytes as UTF-8 text, dropping a leading byte order mark.
func DecodeText(content []byte) (string, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")
	if !utf8.ValidString(text) {
		return "", domain.ErrInvalidEncoding
	}
	return text, nil
}
