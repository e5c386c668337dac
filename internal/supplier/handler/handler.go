package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/supplier"
	"github.com/fekuna/omnipos-warehouse-service/internal/supplier/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
)

type SupplierHandler struct {
	uc     supplier.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewSupplierHandler(uc supplier.UseCase, rs *httpx.Responder, log logger.ZapLogger) *SupplierHandler {
	return &SupplierHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *SupplierHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/suppliers").Subrouter()
	s.HandleFunc("", h.ListSuppliers).Methods(http.MethodGet)
	s.HandleFunc("", h.CreateSupplier).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.GetSupplier).Methods(http.MethodGet)
	s.HandleFunc("/{id}", h.UpdateSupplier).Methods(http.MethodPut)
	s.HandleFunc("/{id}", h.DeleteSupplier).Methods(http.MethodDelete)
}

type supplierRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"is_active"`
}

func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	s, err := h.uc.CreateSupplier(r.Context(), &dto.CreateSupplierInput{
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, s)
}

func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSupplier(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, s)
}

func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	items, total, err := h.uc.ListSuppliers(r.Context(), &dto.SupplierFilters{
		IsActive:    httpx.OptionalBool(r, "is_active"),
		SearchQuery: r.URL.Query().Get("search"),
		Page:        page.Page,
		PageSize:    page.Size,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	s, err := h.uc.UpdateSupplier(r.Context(), &dto.UpdateSupplierInput{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		IsActive:    active,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, s)
}

func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteSupplier(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
