package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/order"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// HeaderIdempotencyKey is accepted in place of request_token in the body.
const HeaderIdempotencyKey = "Idempotency-Key"

type OrderHandler struct {
	uc     order.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, rs *httpx.Responder, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *OrderHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/orders").Subrouter()
	s.HandleFunc("", h.ListOrders).Methods(http.MethodGet)
	s.HandleFunc("", h.CreateOrder).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.GetOrder).Methods(http.MethodGet)
	s.HandleFunc("/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	s.HandleFunc("/{id}/shipping-status", h.UpdateShippingStatus).Methods(http.MethodPut)
	s.HandleFunc("/{id}/shipping", h.UpdateShippingDetails).Methods(http.MethodPut)
	s.HandleFunc("/{id}/tracking", h.ListTracking).Methods(http.MethodGet)
}

type orderItemRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LocationID *string         `json:"location_id"`
	LotNumber  *string         `json:"lot_number"`
	ExpiryDate *time.Time      `json:"expiry_date"`
}

type createOrderRequest struct {
	OrderType            string             `json:"order_type"`
	SupplierID           *string            `json:"supplier_id"`
	CustomerID           *string            `json:"customer_id"`
	ShippingAddress      *string            `json:"shipping_address"`
	ShippingCarrier      *string            `json:"shipping_carrier"`
	Notes                *string            `json:"notes"`
	RequestToken         *string            `json:"request_token"`
	AutoRaiseCreditLimit bool               `json:"auto_raise_credit_limit"`
	Items                []orderItemRequest `json:"items"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	token := req.RequestToken
	if token == nil {
		if key := r.Header.Get(HeaderIdempotencyKey); key != "" {
			token = &key
		}
	}

	items := make([]dto.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, dto.OrderItemInput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			LocationID: it.LocationID,
			LotNumber:  it.LotNumber,
			ExpiryDate: it.ExpiryDate,
		})
	}

	res, err := h.uc.CreateOrder(r.Context(), &dto.CreateOrderInput{
		OrderType:            req.OrderType,
		SupplierID:           req.SupplierID,
		CustomerID:           req.CustomerID,
		ShippingAddress:      req.ShippingAddress,
		ShippingCarrier:      req.ShippingCarrier,
		Notes:                req.Notes,
		Items:                items,
		RequestToken:         token,
		AutoRaiseCreditLimit: req.AutoRaiseCreditLimit,
		UserID:               auth.FromRequest(r).UserID,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	h.rs.JSON(w, status, res)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := httpx.ParsePage(r)
	items, total, err := h.uc.ListOrders(r.Context(), &dto.OrderFilters{
		OrderType:      q.Get("order_type"),
		Status:         q.Get("status"),
		ShippingStatus: q.Get("shipping_status"),
		CustomerID:     q.Get("customer_id"),
		SupplierID:     q.Get("supplier_id"),
		SearchQuery:    q.Get("search"),
		Page:           page.Page,
		PageSize:       page.Size,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

type statusRequest struct {
	Status   string  `json:"status"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	o, err := h.uc.UpdateStatus(r.Context(), &dto.UpdateStatusInput{
		OrderID: mux.Vars(r)["id"],
		Status:  req.Status,
		UserID:  auth.FromRequest(r).UserID,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) UpdateShippingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	o, err := h.uc.UpdateShippingStatus(r.Context(), &dto.UpdateShippingStatusInput{
		OrderID:  mux.Vars(r)["id"],
		Status:   req.Status,
		Location: req.Location,
		Notes:    req.Notes,
		UserID:   auth.FromRequest(r).UserID,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) UpdateShippingDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress *string `json:"shipping_address"`
		ShippingCarrier *string `json:"shipping_carrier"`
		TrackingNumber  *string `json:"tracking_number"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	o, err := h.uc.UpdateShippingDetails(r.Context(), &dto.UpdateShippingDetailsInput{
		OrderID:         mux.Vars(r)["id"],
		ShippingAddress: req.ShippingAddress,
		ShippingCarrier: req.ShippingCarrier,
		TrackingNumber:  req.TrackingNumber,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListTracking(w http.ResponseWriter, r *http.Request) {
	entries, err := h.uc.ListTracking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}
