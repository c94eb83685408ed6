package persist

import (
	"context"
	"errors"
	"fmt"

	"device-locator/core/storage"
)

// ErrNotFound is returned when a named entry has never been written.
// Callers fall back to their bundled defaults in that case.
var ErrNotFound = errors.New("entry not found")

// Store is a durable home for named JSON entries. Two entries exist today:
// the device/folder collections and the theme preference.
type Store interface {
	// Get returns the raw contents of an entry, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes the entry, replacing any previous contents.
	Put(ctx context.Context, key string, data []byte) error
}

// New creates a Store for the configured backend.
func New(ctx context.Context, cfg storage.Config) (Store, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Path)
	case "s3":
		client, err := storage.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewObjectStore(ctx, client, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
