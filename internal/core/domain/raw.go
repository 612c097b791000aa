package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument represents opaque bytes read by a connector.
// It is the connector's output before normalisation.
type RawDocument struct {
	// Path is the file the bytes were read from.
	Path string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Extension returns the lower-cased file extension, including the dot.
func (r *RawDocument) Extension() string {
	return strings.ToLower(filepath.Ext(r.Path))
}
