package host

import "errors"

var (
	// ErrFileNotFound indicates the file does not exist in the gist.
	ErrFileNotFound = errors.New("host: file not found")

	// ErrGistNotFound indicates the gist does not exist or is not visible to the token.
	ErrGistNotFound = errors.New("host: gist not found")

	// ErrAuthFailed indicates the credentials were rejected.
	ErrAuthFailed = errors.New("host: authentication failed")

	// ErrTimeout indicates the request did not complete in time.
	ErrTimeout = errors.New("host: request timed out")

	// ErrRequestFailed indicates any other transport or API failure.
	ErrRequestFailed = errors.New("host: request failed")

	// ErrInvalidBaseURL indicates the API base URL could not be parsed.
	ErrInvalidBaseURL = errors.New("host: invalid base URL")
)
