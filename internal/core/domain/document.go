package domain

// Metadata describes where a Document or Chunk came from.
type Metadata struct {
	// SourcePath is the file the text was loaded from.
	SourcePath string `json:"source_path"`

	// Page is the 1-based page number for paginated formats.
	// Zero means the source is not paginated.
	Page int `json:"page,omitempty"`

	// Title is an optional human-readable title (e.g. a Markdown heading).
	Title string `json:"title,omitempty"`
}

// Document is the text of one source file, or of one page for
// paginated formats. Documents are ephemeral: they exist only for
// the duration of an ingestion run.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Text is the full decoded text.
	Text string

	// Metadata records the document's origin.
	Metadata Metadata
}

// Chunk is a bounded segment of a Document's text.
// It is the unit that is embedded, stored and retrieved.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text is the chunk content, an exact substring of the parent text.
	Text string

	// Metadata is inherited from the parent Document.
	Metadata Metadata

	// StartIndex is the offset, in characters, of the chunk's first
	// character within the parent Document's text.
	StartIndex int
}

// IndexedEntry is the unit persisted in a vector store.
type IndexedEntry struct {
	// Vector is the chunk's embedding.
	Vector []float32

	// Chunk is the embedded text and its metadata.
	Chunk Chunk
}

// ScoredChunk is a single retrieval hit.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity between the query and the chunk.
	Score float64
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Files is the number of source files that produced documents.
	Files int

	// Documents is the number of documents loaded (PDF pages count individually).
	Documents int

	// Chunks is the number of entries added to the store.
	Chunks int

	// Store describes where the entries were written.
	Store string
}

// Answer is the result of the retrieval-answer pipeline.
type Answer struct {
	// Text is the LLM's reply, unmodified.
	Text string

	// Sources are the chunks passed to the LLM as context,
	// in descending similarity order.
	Sources []ScoredChunk
}
