package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/realtime"
	chatService "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/service/reply"
	shoppingService "github.com/zhouzirui/z-stylist/backend/internal/service/shopping"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

func TestRouterMountsAPI(t *testing.T) {
	store := storage.NewMemoryStore()
	products := catalog.NewMemoryStore(catalog.Seed())
	hub := realtime.NewHub(nil, 0)
	chatSvc := chatService.NewService(store, reply.NewMock(products),
		chatService.WithPublisher(hub),
		chatService.WithTiming(chatService.Timing{ReplyDelay: time.Millisecond}))
	defer chatSvc.Close()

	router := NewRouter(zap.NewNop(), Services{
		Chat:     chatSvc,
		Hub:      hub,
		Products: products,
		Shops:    catalog.SeedShops(),
		Sales:    catalog.SeedSales(),
		Looks:    catalog.SeedLooks(),
		Cart:     shoppingService.NewCart(store, nil),
		Wishlist: shoppingService.NewWishlist(store, nil),
	})

	for _, path := range []string{"/healthz", "/api/chat/state", "/api/products", "/api/cart/", "/api/wishlist/", "/api/sales", "/api/looks"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
		if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("%s: missing CORS header", path)
		}
	}
}
