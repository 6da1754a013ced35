package store

import "errors"

var (
	// ErrConfiguration indicates a missing credential, gist ID or filename,
	// or an encryption key that is not 32 url-safe base64-encoded bytes.
	ErrConfiguration = errors.New("store: invalid configuration")

	// ErrNotFound indicates the managed file does not exist in the gist.
	// Callers may treat it as an empty key space.
	ErrNotFound = errors.New("store: file not found")

	// ErrInvalidFormat indicates the file content is not a JSON object.
	ErrInvalidFormat = errors.New("store: content is not valid JSON")

	// ErrDecryption indicates the stored token cannot be opened with the
	// configured key, or the content was never encrypted.
	ErrDecryption = errors.New("store: cannot decrypt content")
)
