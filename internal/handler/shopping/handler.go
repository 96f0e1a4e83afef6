package shopping

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/service/shopping"
	"github.com/zhouzirui/z-stylist/backend/pkg/utils"
)

const maxBody = 4 << 10

// Handler 购物车与心愿单的HTTP处理器
type Handler struct {
	products catalog.Store
	cart     *shopping.Cart
	wishlist *shopping.Wishlist
}

// New 创建购物处理器
func New(products catalog.Store, cart *shopping.Cart, wishlist *shopping.Wishlist) *Handler {
	return &Handler{products: products, cart: cart, wishlist: wishlist}
}

// RegisterRoutes 注册购物车与心愿单路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.handleCart)
		r.Delete("/", h.handleClearCart)
		r.Post("/items", h.handleAddToCart)
		r.Put("/items/{productID}", h.handleUpdateQuantity)
		r.Delete("/items/{productID}", h.handleRemoveFromCart)
	})
	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", h.handleWishlist)
		r.Post("/toggle", h.handleToggleWishlist)
		r.Delete("/{productID}", h.handleRemoveFromWishlist)
	})
}

type cartResponse struct {
	Items      []shopping.CartItem `json:"items"`
	TotalItems int                 `json:"totalItems"`
	TotalPrice int                 `json:"totalPrice"`
}

func (h *Handler) cartState(r *http.Request) cartResponse {
	items := h.cart.Items(r.Context())
	out := cartResponse{Items: items}
	for _, item := range items {
		out.TotalItems += item.Quantity
		out.TotalPrice += item.Price * item.Quantity
	}
	return out
}

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.cartState(r))
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	utils.RespondJSON(w, http.StatusOK, h.cartState(r))
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromBody(w, r)
	if !ok {
		return
	}
	h.cart.Add(r.Context(), product)
	utils.RespondJSON(w, http.StatusOK, h.cartState(r))
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := utils.DecodeJSON(w, r, maxBody, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Quantity < 1 {
		utils.RespondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}
	if !h.cart.UpdateQuantity(r.Context(), id, payload.Quantity) {
		utils.RespondError(w, http.StatusNotFound, "product not in cart")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.cartState(r))
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	if !h.cart.Remove(r.Context(), id) {
		utils.RespondError(w, http.StatusNotFound, "product not in cart")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.cartState(r))
}

func (h *Handler) handleWishlist(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.wishlist.Items(r.Context()))
}

func (h *Handler) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromBody(w, r)
	if !ok {
		return
	}
	saved := h.wishlist.Toggle(r.Context(), product)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"saved": saved,
		"items": h.wishlist.Items(r.Context()),
	})
}

func (h *Handler) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	if !h.wishlist.Remove(r.Context(), id) {
		utils.RespondError(w, http.StatusNotFound, "product not in wishlist")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.wishlist.Items(r.Context()))
}

func (h *Handler) productFromBody(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	var payload struct {
		ProductID int `json:"productId"`
	}
	if err := utils.DecodeJSON(w, r, maxBody, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return catalog.Product{}, false
	}
	product, ok := h.products.FindByID(payload.ProductID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return catalog.Product{}, false
	}
	return product, true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
