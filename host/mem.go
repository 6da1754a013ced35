package host

import (
	"context"
	"fmt"
	"sync"
)

// MemHost is an in-memory Host. It is safe for concurrent use and counts
// writes so callers can observe whether a write was issued.
type MemHost struct {
	mu     sync.RWMutex
	gists  map[string]map[string]string
	writes int
}

// Compile-time interface check.
var _ Host = (*MemHost)(nil)

// NewMemHost creates an empty in-memory host.
func NewMemHost() *MemHost {
	return &MemHost{gists: make(map[string]map[string]string)}
}

// ReadFile returns the stored content of filename.
func (h *MemHost) ReadFile(_ context.Context, gistID, filename string) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	content, ok := h.gists[gistID][filename]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
	}
	return content, nil
}

// WriteFile stores content under filename, creating the gist if needed.
func (h *MemHost) WriteFile(_ context.Context, gistID, filename, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	files, ok := h.gists[gistID]
	if !ok {
		files = make(map[string]string)
		h.gists[gistID] = files
	}
	files[filename] = content
	h.writes++
	return nil
}

// DeleteFile removes filename.
func (h *MemHost) DeleteFile(_ context.Context, gistID, filename string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	files := h.gists[gistID]
	if _, ok := files[filename]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
	}
	delete(files, filename)
	h.writes++
	return nil
}

// Writes returns the number of successful WriteFile and DeleteFile calls.
func (h *MemHost) Writes() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.writes
}
