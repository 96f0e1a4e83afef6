package shopping

import (
	"context"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

// CartItem is a product with the quantity in the cart.
type CartItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Cart is the persisted shopping cart.
type Cart struct {
	doc *document[CartItem]
}

// NewCart returns a cart stored under CartKey.
func NewCart(store storage.Store, logger *zap.Logger) *Cart {
	return &Cart{doc: newDocument[CartItem](store, CartKey, logger)}
}

// Add puts a product in the cart, or bumps its quantity when present.
func (c *Cart) Add(ctx context.Context, product catalog.Product) []CartItem {
	d := c.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)

	found := false
	for i := range d.items {
		if d.items[i].ID == product.ID {
			d.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		d.items = append(d.items, CartItem{Product: product, Quantity: 1})
	}
	d.saveLocked(ctx)
	return d.snapshotLocked()
}

// Remove drops a product. It reports whether anything was removed.
func (c *Cart) Remove(ctx context.Context, productID int) bool {
	d := c.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)

	for i := range d.items {
		if d.items[i].ID == productID {
			d.items = append(d.items[:i:i], d.items[i+1:]...)
			d.saveLocked(ctx)
			return true
		}
	}
	return false
}

// UpdateQuantity sets the quantity of a product already in the cart.
// Quantities below one are ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, quantity int) bool {
	if quantity < 1 {
		return false
	}
	d := c.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)

	for i := range d.items {
		if d.items[i].ID == productID {
			d.items[i].Quantity = quantity
			d.saveLocked(ctx)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	d := c.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)
	d.items = []CartItem{}
	d.saveLocked(ctx)
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items(ctx context.Context) []CartItem {
	d := c.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(ctx)
	return d.snapshotLocked()
}

// TotalItems sums the quantities.
func (c *Cart) TotalItems(ctx context.Context) int {
	total := 0
	for _, item := range c.Items(ctx) {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity.
func (c *Cart) TotalPrice(ctx context.Context) int {
	total := 0
	for _, item := range c.Items(ctx) {
		total += item.Price * item.Quantity
	}
	return total
}
