package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when no document exists for the key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrEmptyKey rejects blank document keys.
	ErrEmptyKey = errors.New("storage: key is required")
)

// Store keeps one JSON document per key. Writes are last-write-wins.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
