package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/pkg/utils"
)

const defaultShopLimit = 3

// Handler 商品、门店、折扣和穿搭推荐查询的HTTP处理器
type Handler struct {
	products catalog.Store
	shops    []catalog.Shop
	sales    []catalog.Sale
	looks    []catalog.Look
}

// New 创建商品目录处理器
func New(products catalog.Store, shops []catalog.Shop, sales []catalog.Sale, looks []catalog.Look) *Handler {
	return &Handler{products: products, shops: shops, sales: sales, looks: looks}
}

// RegisterRoutes 注册商品目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{productID}", h.handleGetProduct)
	r.Get("/shops", h.handleNearestShops)
	r.Get("/sales", h.handleListSales)
	r.Get("/sales/brands", h.handleSaleBrands)
	r.Get("/looks", h.handleListLooks)
	r.Get("/looks/{lookID}", h.handleGetLook)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if brand := r.URL.Query().Get("brand"); brand != "" {
		utils.RespondJSON(w, http.StatusOK, h.products.ByBrand(brand))
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.products.List())
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, ok := h.products.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

// handleNearestShops 按距离返回最近的门店
func (h *Handler) handleNearestShops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		utils.RespondError(w, http.StatusBadRequest, "lat must be a latitude")
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		utils.RespondError(w, http.StatusBadRequest, "lng must be a longitude")
		return
	}

	limit := defaultShopLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, catalog.Nearest(h.shops, lat, lng, limit))
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, catalog.SalesByBrand(h.sales, r.URL.Query().Get("brand")))
}

func (h *Handler) handleSaleBrands(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, catalog.SaleBrands(h.sales))
}

func (h *Handler) handleListLooks(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.looks)
}

func (h *Handler) handleGetLook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "lookID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid look id")
		return
	}
	look, ok := catalog.FindLook(h.looks, id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "look not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, look)
}
