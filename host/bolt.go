package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketGists = []byte("gists")

// BoltHost is a Host backed by a local bbolt database. Each gist is a nested
// bucket under "gists" and each file a key in it.
type BoltHost struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Host = (*BoltHost)(nil)

// OpenBoltHost opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltHost(dbPath string) (*BoltHost, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("host: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("host: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketGists); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketGists, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("host: create buckets: %w", err)
	}

	return &BoltHost{db: db}, nil
}

// Close closes the underlying database.
func (h *BoltHost) Close() error { return h.db.Close() }

// ReadFile returns the stored content of filename.
func (h *BoltHost) ReadFile(_ context.Context, gistID, filename string) (string, error) {
	var content string
	err := h.db.View(func(tx *bbolt.Tx) error {
		gist := tx.Bucket(bucketGists).Bucket([]byte(gistID))
		if gist == nil {
			return fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
		}
		data := gist.Get([]byte(filename))
		if data == nil {
			return fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
		}
		// data is only valid inside the transaction; string() copies it.
		content = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// WriteFile stores content under filename, creating the gist bucket if needed.
func (h *BoltHost) WriteFile(_ context.Context, gistID, filename, content string) error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		gist, err := tx.Bucket(bucketGists).CreateBucketIfNotExists([]byte(gistID))
		if err != nil {
			return fmt.Errorf("host: create gist bucket: %w", err)
		}
		if err := gist.Put([]byte(filename), []byte(content)); err != nil {
			return fmt.Errorf("host: put file: %w", err)
		}
		return nil
	})
}

// DeleteFile removes filename.
func (h *BoltHost) DeleteFile(_ context.Context, gistID, filename string) error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		gist := tx.Bucket(bucketGists).Bucket([]byte(gistID))
		if gist == nil || gist.Get([]byte(filename)) == nil {
			return fmt.Errorf("%w: %s/%s", ErrFileNotFound, gistID, filename)
		}
		if err := gist.Delete([]byte(filename)); err != nil {
			return fmt.Errorf("host: delete file: %w", err)
		}
		return nil
	})
}
