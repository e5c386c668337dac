package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, rs *httpx.Responder, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *InventoryHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/inventory").Subrouter()
	s.HandleFunc("", h.ListInventory).Methods(http.MethodGet)
	s.HandleFunc("/low-stock", h.ListLowStock).Methods(http.MethodGet)
	s.HandleFunc("/stock/{productID}", h.GetStockLevel).Methods(http.MethodGet)
	s.HandleFunc("/movements", h.ListMovements).Methods(http.MethodGet)
	s.HandleFunc("/receive", h.ReceiveStock).Methods(http.MethodPost)
	s.HandleFunc("/allocations", h.Allocate).Methods(http.MethodPost)
	s.HandleFunc("/allocations/{token}", h.GetAllocation).Methods(http.MethodGet)
	s.HandleFunc("/allocations/{token}/release", h.ReleaseAllocation).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.GetInventory).Methods(http.MethodGet)
	s.HandleFunc("/{id}/adjust", h.AdjustStock).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.DeleteInventory).Methods(http.MethodDelete)
}

type receiveRequest struct {
	ProductID     string     `json:"product_id"`
	LocationID    string     `json:"location_id"`
	Quantity      int        `json:"quantity"`
	LotNumber     *string    `json:"lot_number"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	ReferenceType string     `json:"reference_type"`
	ReferenceID   string     `json:"reference_id"`
	Notes         string     `json:"notes"`
}

type adjustRequest struct {
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
	ReferenceType  string `json:"reference_type"`
	ReferenceID    string `json:"reference_id"`
}

type allocateRequest struct {
	Token     string  `json:"token"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	OrderID   *string `json:"order_id"`
}

func (h *InventoryHandler) GetStockLevel(w http.ResponseWriter, r *http.Request) {
	lvl, err := h.uc.GetStockLevel(r.Context(), mux.Vars(r)["productID"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, lvl)
}

func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	items, total, err := h.uc.ListLowStock(r.Context(), page.Page, page.Size)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	q := r.URL.Query()
	filters := &dto.InventoryFilters{
		ProductID:  q.Get("product_id"),
		LocationID: q.Get("location_id"),
		Page:       page.Page,
		PageSize:   page.Size,
	}
	if v := q.Get("expiring_before"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			h.rs.Error(w, r, apperr.Invalid("expiring_before"))
			return
		}
		filters.ExpiringBefore = &t
	}

	items, total, err := h.uc.ListInventory(r.Context(), filters)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.uc.GetInventory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) ReceiveStock(w http.ResponseWriter, r *http.Request) {
	var req receiveRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	inv, err := h.uc.ReceiveStock(r.Context(), &dto.ReceiveStockInput{
		ProductID:     req.ProductID,
		LocationID:    req.LocationID,
		Quantity:      req.Quantity,
		LotNumber:     req.LotNumber,
		ExpiryDate:    req.ExpiryDate,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
		UserID:        auth.FromRequest(r).UserID,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	inv, err := h.uc.AdjustStock(r.Context(), &dto.AdjustStockInput{
		InventoryID:    mux.Vars(r)["id"],
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		ReferenceType:  req.ReferenceType,
		ReferenceID:    req.ReferenceID,
		UserID:         auth.FromRequest(r).UserID,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteInventory(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	q := r.URL.Query()
	filters := &dto.MovementFilters{
		ProductID:    q.Get("product_id"),
		LocationID:   q.Get("location_id"),
		InventoryID:  q.Get("inventory_id"),
		MovementType: q.Get("movement_type"),
		ReferenceID:  q.Get("reference_id"),
		Page:         page.Page,
		PageSize:     page.Size,
	}
	for key, dst := range map[string]**time.Time{"start_date": &filters.StartDate, "end_date": &filters.EndDate} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := parseTime(v)
		if err != nil {
			h.rs.Error(w, r, apperr.Invalid(key))
			return
		}
		*dst = &t
	}

	items, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *InventoryHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	a, err := h.uc.Allocate(r.Context(), &dto.AllocateInput{
		Token:     req.Token,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		OrderID:   req.OrderID,
		UserID:    auth.FromRequest(r).UserID,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, a)
}

func (h *InventoryHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	a, err := h.uc.GetAllocation(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, a)
}

func (h *InventoryHandler) ReleaseAllocation(w http.ResponseWriter, r *http.Request) {
	a, err := h.uc.ReleaseAllocation(r.Context(), mux.Vars(r)["token"], auth.FromRequest(r).UserID)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, a)
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}
