// Package store provides keyed blob storage for encoded recordings, backed by
// plain files or SQLite.
package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no blob exists for a key.
var ErrNotFound = errors.New("recording not found")

// ErrInvalidKey is returned for a key the backend cannot address safely.
var ErrInvalidKey = errors.New("invalid recording key")

// BlobStore is an opaque key to bytes store. Keys are recording ids; any
// namespacing (directory, extension, table) is the implementation's concern.
type BlobStore interface {
	// Read returns the full blob for key.
	Read(ctx context.Context, key string) ([]byte, error)

	// Open returns a reader over the blob for key. Callers must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Write replaces the blob for key. A failed write leaves the previous
	// blob untouched.
	Write(ctx context.Context, key string, data []byte) error

	// Exists reports whether a blob is stored for key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the blob for key.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Stats reports backend statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the store.
	Close() error
}

// Stats holds storage statistics.
type Stats struct {
	Backend    string `json:"backend"`
	Location   string `json:"location"`
	Recordings int    `json:"recordings"`
	TotalBytes int64  `json:"total_bytes"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
}
