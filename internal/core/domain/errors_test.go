package domain

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrConfiguration", ErrConfiguration},
		{"ErrIO", ErrIO},
		{"ErrRemoteService", ErrRemoteService},
		{"ErrMissingCredential", ErrMissingCredential},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrModelMismatch", ErrModelMismatch},
		{"ErrInvalidChunking", ErrInvalidChunking},
		{"ErrUnknownProvider", ErrUnknownProvider},
		{"ErrAuthFailed", ErrAuthFailed},
		{"ErrEmptyQuestion", ErrEmptyQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestConfigurationErrors_MatchCategory(t *testing.T) {
	for _, err := range []error{
		ErrMissingCredential,
		ErrDimensionMismatch,
		ErrModelMismatch,
		ErrInvalidChunking,
		ErrUnknownProvider,
		ErrInvalidSetting,
	} {
		assert.ErrorIs(t, err, ErrConfiguration, err.Error())
		assert.NotErrorIs(t, err, ErrIO)
		assert.NotErrorIs(t, err, ErrRemoteService)
	}
}

func TestRemoteErrors_MatchCategory(t *testing.T) {
	assert.ErrorIs(t, ErrAuthFailed, ErrRemoteService)
	assert.ErrorIs(t, ErrEmptyResponse, ErrRemoteService)
	assert.NotErrorIs(t, ErrAuthFailed, ErrConfiguration)
}

func TestErrMissingCredential_Message(t *testing.T) {
	assert.Equal(t, "configuration error: missing API credential", ErrMissingCredential.Error())
}

func TestFileError(t *testing.T) {
	err := NewFileError("data/broken.pdf", fs.ErrPermission)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "data/broken.pdf")

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "data/broken.pdf", fileErr.Path)
}

func TestFileError_Wrapped(t *testing.T) {
	err := NewFileError("notes.txt", ErrInvalidEncoding)
	wrapped := errors.Join(errors.New("load documents"), err)

	assert.ErrorIs(t, wrapped, ErrIO)
	assert.ErrorIs(t, wrapped, ErrInvalidEncoding)
}
