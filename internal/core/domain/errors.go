package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned across a port boundary
// matches exactly one of these via errors.Is.
var (
	// ErrConfiguration indicates missing or invalid configuration.
	// It is always fatal and reported before any retrieval or generation work.
	ErrConfiguration = errors.New("configuration error")

	// ErrIO indicates an unreadable file, a corrupt document or an
	// inaccessible store path.
	ErrIO = errors.New("i/o error")

	// ErrRemoteService indicates a remote collaborator (LLM or embedding
	// API) failed, timed out or rejected the request.
	ErrRemoteService = errors.New("remote service error")
)

// Configuration errors.
var (
	// ErrMissingCredential indicates the selected provider needs an API key
	// and none was supplied.
	ErrMissingCredential = fmt.Errorf("%w: missing API credential", ErrConfiguration)

	// ErrDimensionMismatch indicates a vector's length differs from the
	// dimensionality the store was created with.
	ErrDimensionMismatch = fmt.Errorf("%w: embedding dimension mismatch", ErrConfiguration)

	// ErrModelMismatch indicates the store was built with a different
	// embedding model than the one configured.
	ErrModelMismatch = fmt.Errorf("%w: embedding model mismatch", ErrConfiguration)

	// ErrInvalidChunking indicates chunk size and overlap are inconsistent.
	ErrInvalidChunking = fmt.Errorf("%w: invalid chunking parameters", ErrConfiguration)

	// ErrUnknownProvider indicates an unrecognised provider or backend name.
	ErrUnknownProvider = fmt.Errorf("%w: unknown provider", ErrConfiguration)

	// ErrInvalidSetting indicates a settings value failed validation.
	ErrInvalidSetting = fmt.Errorf("%w: invalid setting", ErrConfiguration)
)

// Remote service errors.
var (
	// ErrAuthFailed indicates the remote service rejected the credential.
	ErrAuthFailed = fmt.Errorf("%w: authentication failed", ErrRemoteService)

	// ErrEmptyResponse indicates the remote service returned no content.
	ErrEmptyResponse = fmt.Errorf("%w: empty response", ErrRemoteService)
)

var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuestion indicates ask was called with a blank question.
	ErrEmptyQuestion = fmt.Errorf("%w: question is empty", ErrInvalidInput)

	// ErrInvalidEncoding indicates file content is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("invalid text encoding")
)

// FileError reports a failure to read or decode a specific file.
// It matches ErrIO and the underlying cause via errors.Is.
type FileError struct {
	// Path is the offending file.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrIO, e.Path, e.Err)
}

// Unwrap exposes both the I/O category and the cause.
func (e *FileError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// NewFileError wraps err with the path of the file that caused it.
func NewFileError(path string, err error) error {
	return &FileError{Path: path, Err: err}
}
