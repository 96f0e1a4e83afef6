package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

func product(t *testing.T, id int) catalog.Product {
	t.Helper()
	p, ok := catalog.NewMemoryStore(catalog.Seed()).FindByID(id)
	if !ok {
		t.Fatalf("seed product %d missing", id)
	}
	return p
}

func TestCartAddMergesQuantities(t *testing.T) {
	ctx := context.Background()
	cart := NewCart(storage.NewMemoryStore(), nil)

	cart.Add(ctx, product(t, 1))
	cart.Add(ctx, product(t, 2))
	items := cart.Add(ctx, product(t, 1))

	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].ID != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected product 1 with quantity 2, got %+v", items[0])
	}
	if got := cart.TotalItems(ctx); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	want := product(t, 1).Price*2 + product(t, 2).Price
	if got := cart.TotalPrice(ctx); got != want {
		t.Fatalf("expected total %d, got %d", want, got)
	}
}

func TestCartQuantityAndRemoval(t *testing.T) {
	ctx := context.Background()
	cart := NewCart(storage.NewMemoryStore(), nil)
	cart.Add(ctx, product(t, 3))

	if cart.UpdateQuantity(ctx, 3, 0) {
		t.Fatal("quantity below one must be ignored")
	}
	if !cart.UpdateQuantity(ctx, 3, 5) || cart.TotalItems(ctx) != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.TotalItems(ctx))
	}
	if cart.UpdateQuantity(ctx, 99, 2) {
		t.Fatal("unknown product must not be updated")
	}
	if !cart.Remove(ctx, 3) || len(cart.Items(ctx)) != 0 {
		t.Fatal("expected product removed")
	}
	if cart.Remove(ctx, 3) {
		t.Fatal("second removal must report false")
	}
}

func TestCartPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	NewCart(store, nil).Add(ctx, product(t, 4))

	items := NewCart(store, nil).Items(ctx)
	if len(items) != 1 || items[0].ID != 4 || items[0].Quantity != 1 {
		t.Fatalf("unexpected reloaded cart: %+v", items)
	}

	NewCart(store, nil).Clear(ctx)
	if got := NewCart(store, nil).Items(ctx); len(got) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", got)
	}
}

func TestMalformedCollectionStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.Save(ctx, CartKey, []byte("not json"))
	store.Save(ctx, WishlistKey, []byte("{}"))

	if items := NewCart(store, nil).Items(ctx); len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
	if items := NewWishlist(store, nil).Items(ctx); len(items) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", items)
	}
}

func TestWishlistUniqueness(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	list := NewWishlist(store, nil)

	if !list.Add(ctx, product(t, 2)) {
		t.Fatal("first add must succeed")
	}
	if list.Add(ctx, product(t, 2)) {
		t.Fatal("duplicate add must be ignored")
	}
	if !list.Contains(ctx, 2) || len(list.Items(ctx)) != 1 {
		t.Fatalf("unexpected wishlist: %+v", list.Items(ctx))
	}

	if list.Toggle(ctx, product(t, 2)) {
		t.Fatal("toggle of a saved product must remove it")
	}
	if !list.Toggle(ctx, product(t, 1)) {
		t.Fatal("toggle of a new product must save it")
	}
	if list.Remove(ctx, 2) {
		t.Fatal("product 2 is no longer saved")
	}

	reloaded := NewWishlist(store, nil)
	if !reloaded.Contains(ctx, 1) || reloaded.Contains(ctx, 2) {
		t.Fatalf("unexpected reloaded wishlist: %+v", reloaded.Items(ctx))
	}
}

type unreadableStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	loadErr error
}

func (s *unreadableStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	err := s.loadErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.MemoryStore.Load(ctx, key)
}

func (s *unreadableStore) heal() {
	s.mu.Lock()
	s.loadErr = nil
	s.mu.Unlock()
}

func TestUnreadableCollectionIsNeverOverwritten(t *testing.T) {
	ctx := context.Background()
	store := &unreadableStore{MemoryStore: storage.NewMemoryStore(), loadErr: errors.New("connection reset")}
	saved := []CartItem{{Product: product(t, 1), Quantity: 2}, {Product: product(t, 4), Quantity: 1}}
	data, _ := json.Marshal(saved)
	store.MemoryStore.Save(ctx, CartKey, data)

	cart := NewCart(store, nil)
	items := cart.Add(ctx, product(t, 3))
	if len(items) != 1 || items[0].ID != 3 {
		t.Fatalf("expected the change in memory, got %+v", items)
	}

	raw, err := store.MemoryStore.Load(ctx, CartKey)
	if err != nil {
		t.Fatalf("stored cart vanished: %v", err)
	}
	var stored []CartItem
	if err := json.Unmarshal(raw, &stored); err != nil || len(stored) != 2 {
		t.Fatalf("stored cart was overwritten: %s", raw)
	}

	store.heal()
	items = cart.Items(ctx)
	if len(items) != 2 || items[0].ID != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected stored cart after recovery, got %+v", items)
	}
}
