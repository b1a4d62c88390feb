package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrInvalidKey      = errors.New("invalid storage key")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
)

// ImageStore defines the interface for item image backends
type ImageStore interface {
	// Save stores the content of r under a new key and returns that key.
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)

	// Open returns the stored file and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes a file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL is the public address the file is served from.
	URL(key string) string

	// KeyFromURL reverses URL. ok is false for URLs this store did not issue.
	KeyFromURL(url string) (key string, ok bool)
}
