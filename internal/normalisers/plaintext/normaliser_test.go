package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".txt"}, New().SupportedExtensions())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		Path:    "data/cat_facts.txt",
		Content: []byte("hello world, this is a test document about cats."),
	}

	docs, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	doc := docs[0]
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "hello world, this is a test document about cats.", doc.Text)
	assert.Equal(t, "data/cat_facts.txt", doc.Metadata.SourcePath)
	assert.Equal(t, "cat facts", doc.Metadata.Title)
	assert.Zero(t, doc.Metadata.Page)
}

func TestNormalise_KeepsWhitespace(t *testing.T) {
	raw := &domain.RawDocument{Path: "a.txt", Content: []byte("\n\n  indented\n\n")}

	docs, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "\n\n  indented\n\n", docs[0].Text)
}

func TestNormalise_StripsBOM(t *testing.T) {
	raw := &domain.RawDocument{Path: "bom.txt", Content: []byte("\xef\xbb\xbfhello")}

	docs, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "hello", docs[0].Text)
}

func TestNormalise_EmptyContent(t *testing.T) {
	raw := &domain.RawDocument{Path: "empty.txt", Content: nil}

	docs, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].Text)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	raw := &domain.RawDocument{Path: "latin1.txt", Content: []byte{0x63, 0x61, 0x66, 0xe9}}

	docs, err := New().Normalise(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrInvalidEncoding)
	assert.Nil(t, docs)
}

func TestNormalise_NilDocument(t *testing.T) {
	docs, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, docs)
}
