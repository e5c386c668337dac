package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type CustomerHandler struct {
	uc     customer.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, rs *httpx.Responder, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *CustomerHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/customers").Subrouter()
	s.HandleFunc("", h.ListCustomers).Methods(http.MethodGet)
	s.HandleFunc("", h.CreateCustomer).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.GetCustomer).Methods(http.MethodGet)
	s.HandleFunc("/{id}", h.UpdateCustomer).Methods(http.MethodPut)
	s.HandleFunc("/{id}", h.DeleteCustomer).Methods(http.MethodDelete)
	s.HandleFunc("/{id}/credit", h.EvaluateCredit).Methods(http.MethodGet)
	s.HandleFunc("/{id}/analytics", h.GetAnalytics).Methods(http.MethodGet)
}

type customerRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	IsActive    *bool           `json:"is_active"`
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	c, err := h.uc.CreateCustomer(r.Context(), &dto.CreateCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	items, total, err := h.uc.ListCustomers(r.Context(), &dto.CustomerFilters{
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

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c, err := h.uc.UpdateCustomer(r.Context(), &dto.UpdateCustomerInput{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
		IsActive:    active,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCustomer(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvaluateCredit classifies ?total= against the customer's credit without changing anything.
func (h *CustomerHandler) EvaluateCredit(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("total")
	if raw == "" {
		h.rs.Error(w, r, apperr.Required("total"))
		return
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		h.rs.Error(w, r, apperr.Invalid("total"))
		return
	}

	a, err := h.uc.EvaluateCredit(r.Context(), mux.Vars(r)["id"], total)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, a)
}

func (h *CustomerHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.uc.GetAnalytics(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, a)
}
