package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
)

// Storage is the write side the cache needs from its host: directories and
// whole files addressed by slash-separated paths relative to a root.
type Storage interface {
	// CreateDirectory creates path and its parents. An existing directory
	// is not an error.
	CreateDirectory(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path string, data []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// OSStorage implements Storage on the local filesystem below root.
type OSStorage struct {
	root  string
	retry RetryConfig
}

// NewOSStorage creates a storage rooted at root.
func NewOSStorage(root string) *OSStorage {
	return &OSStorage{root: root, retry: DefaultRetryConfig()}
}

// SetRetryConfig overrides the NFS retry policy.
func (s *OSStorage) SetRetryConfig(config RetryConfig) {
	s.retry = config
}

// Root returns the storage root directory.
func (s *OSStorage) Root() string {
	return s.root
}

// Resolve maps a relative storage path to an OS path. Paths escaping the
// root are rejected.
func (s *OSStorage) Resolve(path string) (string, error) {
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("path %q escapes storage root", path)
	}
	return filepath.Join(s.root, local), nil
}

// CreateDirectory implements Storage.
func (s *OSStorage) CreateDirectory(ctx context.Context, path string) error {
	full, err := s.Resolve(path)
	if err != nil {
		return err
	}
	if err := MkdirAllWithRetry(ctx, full, s.retry); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// WriteFile implements Storage.
func (s *OSStorage) WriteFile(ctx context.Context, path string, data []byte) error {
	full, err := s.Resolve(path)
	if err != nil {
		return err
	}
	if err := WriteFileWithRetry(ctx, full, data, s.retry); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile implements Storage.
func (s *OSStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	full, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := ReadFileWithRetry(ctx, full, s.retry)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
