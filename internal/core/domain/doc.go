// Package domain defines the core entities for ragent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Text loaded from a source file (or one page of it)
//   - Chunk: A bounded, overlapping segment of a Document
//   - IndexedEntry: A chunk paired with its embedding vector
//   - ScoredChunk: A retrieval hit with its similarity score
//   - Settings: The explicit configuration passed into constructors
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
