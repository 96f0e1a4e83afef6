package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/handler/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/handler/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/handler/shopping"
	"github.com/zhouzirui/z-stylist/backend/internal/handler/stream"
	"github.com/zhouzirui/z-stylist/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/z-stylist/backend/internal/middleware"
	catalogModel "github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/realtime"
	chatService "github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	shoppingService "github.com/zhouzirui/z-stylist/backend/internal/service/shopping"
	"github.com/zhouzirui/z-stylist/backend/pkg/utils"
)

// Services groups what the HTTP layer talks to.
type Services struct {
	Chat     *chatService.Service
	Hub      *realtime.Hub
	Products catalogModel.Store
	Shops    []catalogModel.Shop
	Sales    []catalogModel.Sale
	Looks    []catalogModel.Look
	Cart     *shoppingService.Cart
	Wishlist *shoppingService.Wishlist
}

// NewRouter wires HTTP routes to core services.
func NewRouter(logger *zap.Logger, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		chat.New(svc.Chat).RegisterRoutes(api)
		stream.New(svc.Chat, svc.Hub, logger).RegisterRoutes(api)
		ws.New(svc.Chat, svc.Hub, logger).RegisterRoutes(api)
		catalog.New(svc.Products, svc.Shops, svc.Sales, svc.Looks).RegisterRoutes(api)
		shopping.New(svc.Products, svc.Cart, svc.Wishlist).RegisterRoutes(api)
	})

	return r
}
