package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Read and Stat when no object exists at path.
// Callers holding a per-user file treat it as "nothing stored yet".
var ErrNotFound = errors.New("storage: object not found")

// Provider is a small key-value file store. Paths are slash separated and
// relative to the provider root (a directory, a bucket).
type Provider interface {
	// Read returns the full contents of the object at path
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the object at path with data
	Write(ctx context.Context, path string, data []byte) error

	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether an object is stored at path
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns basic information about the object at path
	Stat(ctx context.Context, path string) (*FileInfo, error)
}

// FileInfo represents basic file information
type FileInfo struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}
