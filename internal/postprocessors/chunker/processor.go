// Package chunker splits documents into bounded, overlapping chunks that
// prefer to end on paragraph, sentence or word boundaries.
package chunker

import (
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document text into chunks of at most chunkSize
// characters. Lengths and offsets count Unicode code points.
//
// For a window that does not reach the end of the text the cut is placed
// after the latest separator in [start+minAdvance, start+chunkSize],
// trying in order: a blank line, a sentence end (., ! or ? followed by
// whitespace), a line break, any whitespace. With no separator the window
// is cut hard at chunkSize. The next window starts overlap characters
// before the cut.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// Inconsistent parameters are rejected with domain.ErrInvalidChunking.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	cfg := domain.ChunkingSettings{Size: p.chunkSize, Overlap: p.overlap}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// String describes the configuration for logs.
func (p *Processor) String() string {
	return fmt.Sprintf("chunker(size=%d, overlap=%d)", p.chunkSize, p.overlap)
}

// Split chunks every document in order.
func (p *Processor) Split(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for i := range docs {
		chunks = append(chunks, p.SplitDocument(docs[i])...)
	}
	return chunks
}

// SplitDocument chunks a single document. Empty text yields no chunks;
// text no longer than the chunk size yields exactly one chunk holding all of it.
func (p *Processor) SplitDocument(doc domain.Document) []domain.Chunk {
	text := []rune(doc.Text)
	n := len(text)
	if n == 0 {
		return nil
	}

	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, n/step+1)

	start := 0
	for {
		end := start + p.chunkSize
		if end >= n {
			chunks = append(chunks, p.newChunk(doc, text[start:], start))
			break
		}

		end = p.cutPoint(text, start, end)
		chunks = append(chunks, p.newChunk(doc, text[start:end], start))
		start = end - p.overlap
	}

	return chunks
}

func (p *Processor) newChunk(doc domain.Document, text []rune, start int) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Text:       string(text),
		Metadata:   doc.Metadata,
		StartIndex: start,
	}
}

// minAdvance is the shortest chunk a boundary cut may produce. It keeps
// every step forward positive and stops tiny chunks at early separators.
func (p *Processor) minAdvance() int {
	return max(p.overlap+1, p.chunkSize/2)
}

// separator reports whether a cut at position i (exclusive end) of text
// falls right after a separator of its class.
type separator func(text []rune, i, start int) bool

var separators = []separator{
	// paragraph
	func(text []rune, i, start int) bool {
		return i-2 >= start && text[i-1] == '\n' && text[i-2] == '\n'
	},
	// sentence
	func(text []rune, i, start int) bool {
		if i-2 < start || !unicode.IsSpace(text[i-1]) {
			return false
		}
		switch text[i-2] {
		case '.', '!', '?':
			return true
		}
		return false
	},
	// line
	func(text []rune, i, _ int) bool {
		return text[i-1] == '\n'
	},
	// word
	func(text []rune, i, _ int) bool {
		return unicode.IsSpace(text[i-1])
	},
}

// cutPoint returns the exclusive end of the chunk starting at start,
// given the hard limit start+chunkSize.
func (p *Processor) cutPoint(text []rune, start, limit int) int {
	lo := start + p.minAdvance()
	for _, isBoundary := range separators {
		for i := limit; i >= lo; i-- {
			if isBoundary(text, i, start) {
				return i
			}
		}
	}
	return limit
}
