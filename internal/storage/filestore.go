package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileStore persists each key as one JSON file inside a data directory.
// Writes go through a temp file and rename so a crashed write never leaves
// a half-written blob behind.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewFileStore creates the data directory if needed and returns a FileStore
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{
		dir:    dir,
		logger: logger,
	}, nil
}

// Get reads the blob stored for key, or ErrNotFound
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to read blob",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}

	return data, nil
}

// Set replaces the blob stored for key
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		s.logger.Error("failed to write blob",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		s.logger.Error("failed to commit blob",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("failed to commit blob %q: %w", key, err)
	}

	return nil
}

// Ping verifies the data directory is still accessible
func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend
func (s *FileStore) Close() {}

// path maps a key to its file, replacing separators that would escape the
// data directory
func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}
