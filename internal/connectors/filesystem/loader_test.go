package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/normalisers"
	"github.com/custodia-labs/ragent/internal/normalisers/markdown"
	"github.com/custodia-labs/ragent/internal/normalisers/plaintext"
)

func newTestLoader() *Loader {
	return NewLoader(normalisers.NewRegistry(plaintext.New(), markdown.New()))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MixedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "# Beta\n\nbody")
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "image.png", "binary")
	writeFile(t, dir, ".hidden.txt", "secret")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested"), "c.txt", "not scanned")

	docs, err := newTestLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "alpha", docs[0].Text)
	assert.Equal(t, filepath.Join(dir, "a.txt"), docs[0].Metadata.SourcePath)
	assert.Equal(t, "# Beta\n\nbody", docs[1].Text)
	assert.Equal(t, "Beta", docs[1].Metadata.Title)
}

func TestLoad_MissingDirectory(t *testing.T) {
	docs, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	docs, err := newTestLoader().Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_PathIsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "alpha")

	_, err := newTestLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestLoad_InvalidEncodingAbortsRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "fine")
	bad := writeFile(t, dir, "b.txt", string([]byte{0xff, 0xfe, 0xfd}))

	docs, err := newTestLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, domain.ErrInvalidEncoding)

	var fileErr *domain.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, bad, fileErr.Path)
}

func TestLoadFiles_SkipsUnsupported(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "a.txt", "alpha")
	png := writeFile(t, dir, "a.png", "binary")

	docs, err := newTestLoader().LoadFiles(context.Background(), []string{png, txt})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, txt, docs[0].Metadata.SourcePath)
}

func TestLoadFiles_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.txt")

	_, err := newTestLoader().LoadFiles(context.Background(), []string{missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFiles_CancelledContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "alpha")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader().LoadFiles(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name   string
		hidden bool
	}{
		{".env", true},
		{".notes.md", true},
		{"draft.txt~", true},
		{"notes.md", false},
		{"a.b.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hidden, isHidden(tt.name))
		})
	}
}

func TestMimeTypeFor(t *testing.T) {
	assert.Equal(t, "text/plain", mimeTypeFor("a.TXT"))
	assert.Equal(t, "text/markdown", mimeTypeFor("a.markdown"))
	assert.Equal(t, "application/pdf", mimeTypeFor("a.pdf"))
	assert.Equal(t, "application/octet-stream", mimeTypeFor("a"))
}
