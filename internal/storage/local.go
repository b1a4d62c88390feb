package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"eventrent-backend/internal/logger"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// LocalImageStore keeps images on the local filesystem and serves them from
// baseURL + "/media/".
type LocalImageStore struct {
	baseURL      string
	dir          string
	maxBytes     int64
	allowedTypes []string
}

func NewLocalImageStore(baseURL, dir string, maxBytes int64, allowedTypes []string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalImageStore{
		baseURL:      strings.TrimRight(baseURL, "/"),
		dir:          dir,
		maxBytes:     maxBytes,
		allowedTypes: allowedTypes,
	}, nil
}

func (s *LocalImageStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

func (s *LocalImageStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	ext, ok := extensions[contentType]
	if !ok || !slices.Contains(s.allowedTypes, contentType) {
		return "", ErrUnsupportedType
	}

	key := uuid.NewString() + ext
	full, _ := s.path(key)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	// Read one byte past the limit to detect oversize uploads.
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(full)
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write image file: %w", err)
	}

	logger.InfoContext(ctx, "Image stored", "key", key, "bytes", n)
	return key, nil
}

func (s *LocalImageStore) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

func (s *LocalImageStore) Delete(_ context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalImageStore) URL(key string) string {
	return s.baseURL + "/media/" + key
}

func (s *LocalImageStore) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/media/")
	if !ok {
		return "", false
	}
	if _, err := s.path(key); err != nil {
		return "", false
	}
	return key, true
}
