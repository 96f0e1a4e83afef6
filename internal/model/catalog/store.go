package catalog

import "strings"

// Store exposes catalog lookups for the reply generator and HTTP handlers.
type Store interface {
	List() []Product
	FindByID(id int) (Product, bool)
	ByBrand(brands ...string) []Product
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Product
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied products.
func NewMemoryStore(items []Product) *MemoryStore {
	return &MemoryStore{items: append([]Product(nil), items...)}
}

// List returns the catalog in seed order.
func (s *MemoryStore) List() []Product {
	return append([]Product(nil), s.items...)
}

// FindByID looks up a product by identifier.
func (s *MemoryStore) FindByID(id int) (Product, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Product{}, false
}

// ByBrand returns the products of the given brands, keeping catalog order.
func (s *MemoryStore) ByBrand(brands ...string) []Product {
	out := make([]Product, 0, len(brands))
	for _, item := range s.items {
		for _, brand := range brands {
			if strings.EqualFold(item.Brand, brand) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Pick returns the products with the given ids in the order requested.
// Unknown ids are skipped.
func Pick(store Store, ids ...int) []Product {
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := store.FindByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}
