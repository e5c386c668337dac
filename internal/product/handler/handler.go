package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/product"
	"github.com/fekuna/omnipos-warehouse-service/internal/product/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc     product.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, rs *httpx.Responder, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *ProductHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/products").Subrouter()
	s.HandleFunc("", h.ListProducts).Methods(http.MethodGet)
	s.HandleFunc("", h.CreateProduct).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.GetProduct).Methods(http.MethodGet)
	s.HandleFunc("/{id}", h.UpdateProduct).Methods(http.MethodPut)
	s.HandleFunc("/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	s.HandleFunc("/{id}/archive", h.archive(true)).Methods(http.MethodPost)
	s.HandleFunc("/{id}/unarchive", h.archive(false)).Methods(http.MethodPost)
}

type productRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	MinimumStock int             `json:"minimum_stock"`
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &dto.CreateProductInput{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		MinimumStock: req.MinimumStock,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	q := r.URL.Query()
	items, total, err := h.uc.ListProducts(r.Context(), &dto.ProductFilters{
		IsArchived:  httpx.OptionalBool(r, "archived"),
		SearchQuery: q.Get("search"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
		Page:        page.Page,
		PageSize:    page.Size,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	p, err := h.uc.UpdateProduct(r.Context(), &dto.UpdateProductInput{
		ID:           mux.Vars(r)["id"],
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		MinimumStock: req.MinimumStock,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) archive(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.uc.SetArchived(r.Context(), mux.Vars(r)["id"], archived)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		h.rs.JSON(w, http.StatusOK, p)
	}
}
