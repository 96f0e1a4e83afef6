package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

// Storage keys of the persisted collections.
const (
	CartKey     = "shopping-agent-cart"
	WishlistKey = "shopping-agent-wishlist"
)

// document is a JSON list kept under one storage key. It loads lazily and
// writes the whole list back after every change.
type document[T any] struct {
	store  storage.Store
	key    string
	logger *zap.Logger

	mu     sync.Mutex
	loaded bool
	items  []T
}

func newDocument[T any](store storage.Store, key string, logger *zap.Logger) *document[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &document[T]{store: store, key: key, logger: logger}
}

// ensureLocked loads the stored list on first use. Missing or malformed
// documents start empty. A failed read is retried on the next call; until
// then changes live in memory only and are never written over the store.
func (d *document[T]) ensureLocked(ctx context.Context) {
	if d.loaded {
		return
	}
	if d.items == nil {
		d.items = []T{}
	}

	data, err := d.store.Load(ctx, d.key)
	if errors.Is(err, storage.ErrNotFound) {
		d.loaded = true
		return
	}
	if err != nil {
		d.logger.Error("failed to load collection, changes stay in memory", zap.String("key", d.key), zap.Error(err))
		return
	}
	d.loaded = true

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		d.logger.Warn("discarding malformed collection", zap.String("key", d.key), zap.Error(err))
		return
	}
	if len(d.items) > 0 {
		d.logger.Warn("dropping changes made while the collection was unreadable", zap.String("key", d.key), zap.Int("items", len(d.items)))
	}
	d.items = []T{}
	if items != nil {
		d.items = items
	}
}

// saveLocked writes the list back. Failures are logged only.
func (d *document[T]) saveLocked(ctx context.Context) {
	if !d.loaded {
		d.logger.Warn("collection not loaded, change kept in memory", zap.String("key", d.key))
		return
	}
	data, err := json.Marshal(d.items)
	if err != nil {
		d.logger.Error("failed to encode collection", zap.String("key", d.key), zap.Error(err))
		return
	}
	if err := d.store.Save(ctx, d.key, data); err != nil {
		d.logger.Warn("failed to save collection", zap.String("key", d.key), zap.Error(err))
	}
}

func (d *document[T]) snapshotLocked() []T {
	return append([]T{}, d.items...)
}
