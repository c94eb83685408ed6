package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// fileStore keeps each entry as a JSON file in a single directory.
type fileStore struct {
	dir string
}

// NewFileStore creates a file-backed Store rooted at dir.
func NewFileStore(dir string) (Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read entry %s: %w", key, err)
	}
	return data, nil
}

func (s *fileStore) Put(_ context.Context, key string, data []byte) error {
	// Write-then-rename so a crash mid-write never corrupts the entry.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to replace entry %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
