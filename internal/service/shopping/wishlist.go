package shopping

import (
	"context"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

// Wishlist is the persisted set of saved products, unique by id.
type Wishlist struct {
	doc *document[catalog.Product]
}

// NewWishlist returns a wishlist stored under WishlistKey.
func NewWishlist(store storage.Store, logger *zap.Logger) *Wishlist {
	return &Wishlist{doc: newDocument[catalog.Product](store, WishlistKey, logger)}
}

// Add saves a product. Already saved products are left alone.
func (w *Wishlist) Add(ctx context.Context, product catalog.Product) bool {
	d := w.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)

	if w.indexLocked(product.ID) >= 0 {
		return false
	}
	d.items = append(d.items, product)
	d.saveLocked(ctx)
	return true
}

// Remove drops a product by id.
func (w *Wishlist) Remove(ctx context.Context, productID int) bool {
	d := w.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)

	idx := w.indexLocked(productID)
	if idx < 0 {
		return false
	}
	d.items = append(d.items[:idx:idx], d.items[idx+1:]...)
	d.saveLocked(ctx)
	return true
}

// Contains reports whether a product is saved.
func (w *Wishlist) Contains(ctx context.Context, productID int) bool {
	d := w.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)
	return w.indexLocked(productID) >= 0
}

// Toggle adds or removes a product and reports whether it is now saved.
func (w *Wishlist) Toggle(ctx context.Context, product catalog.Product) bool {
	d := w.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)

	if idx := w.indexLocked(product.ID); idx >= 0 {
		d.items = append(d.items[:idx:idx], d.items[idx+1:]...)
		d.saveLocked(ctx)
		return false
	}
	d.items = append(d.items, product)
	d.saveLocked(ctx)
	return true
}

// Items returns a copy of the saved products.
func (w *Wishlist) Items(ctx context.Context) []catalog.Product {
	d := w.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)
	return d.snapshotLocked()
}

func (w *Wishlist) indexLocked(productID int) int {
	for i, p := range w.doc.items {
		if p.ID == productID {
			return i
		}
	}
	return -1
}
