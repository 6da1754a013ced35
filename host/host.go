// Package host provides the blob hosts a gist file store reads from and
// writes to.
//
// GistHost talks to the GitHub gists API. BoltHost keeps gists in a local
// bbolt file for offline use, and MemHost keeps them in memory.
package host

import (
	"context"
	"errors"
	"net"
)

// Host gives access to named text files grouped under a gist ID.
type Host interface {
	// ReadFile returns the current content of filename in gistID.
	// It returns ErrFileNotFound if the file does not exist.
	ReadFile(ctx context.Context, gistID, filename string) (string, error)

	// WriteFile creates or overwrites filename in gistID with content.
	WriteFile(ctx context.Context, gistID, filename, content string) error

	// DeleteFile removes filename from gistID.
	// It returns ErrFileNotFound if the file does not exist.
	DeleteFile(ctx context.Context, gistID, filename string) error
}

// IsTimeout reports whether err is a transport timeout: ErrTimeout, an
// expired context deadline, or a net.Error that timed out.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
