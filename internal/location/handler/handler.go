package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
)

type LocationHandler struct {
	uc     location.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, rs *httpx.Responder, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *LocationHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/locations").Subrouter()
	s.HandleFunc("", h.ListLocations).Methods(http.MethodGet)
	s.HandleFunc("", h.CreateLocation).Methods(http.MethodPost)
	s.HandleFunc("/utilization", h.ListUtilization).Methods(http.MethodGet)
	s.HandleFunc("/capacity-check", h.CheckCapacity).Methods(http.MethodPost)
	s.HandleFunc("/{id}", h.GetLocation).Methods(http.MethodGet)
	s.HandleFunc("/{id}", h.UpdateLocation).Methods(http.MethodPut)
	s.HandleFunc("/{id}", h.DeleteLocation).Methods(http.MethodDelete)
}

type locationRequest struct {
	Zone           string `json:"zone"`
	Aisle          string `json:"aisle"`
	Rack           string `json:"rack"`
	Bin            string `json:"bin"`
	Capacity       int    `json:"capacity"`
	LocationType   string `json:"location_type"`
	RotationMethod string `json:"rotation_method"`
	IsActive       *bool  `json:"is_active"`
}

type capacityCheckRequest struct {
	Assignments []fulfillment.Assignment `json:"assignments"`
}

func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	loc, err := h.uc.CreateLocation(r.Context(), &dto.CreateLocationInput{
		Zone:           req.Zone,
		Aisle:          req.Aisle,
		Rack:           req.Rack,
		Bin:            req.Bin,
		Capacity:       req.Capacity,
		LocationType:   req.LocationType,
		RotationMethod: req.RotationMethod,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusCreated, loc)
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.uc.GetLocation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, loc)
}

func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	filters, page := parseFilters(r)
	items, total, err := h.uc.ListLocations(r.Context(), filters)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	loc, err := h.uc.UpdateLocation(r.Context(), &dto.UpdateLocationInput{
		ID:             mux.Vars(r)["id"],
		Zone:           req.Zone,
		Aisle:          req.Aisle,
		Rack:           req.Rack,
		Bin:            req.Bin,
		Capacity:       req.Capacity,
		LocationType:   req.LocationType,
		RotationMethod: req.RotationMethod,
		IsActive:       active,
	})
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, loc)
}

func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteLocation(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LocationHandler) ListUtilization(w http.ResponseWriter, r *http.Request) {
	filters, page := parseFilters(r)
	items, total, err := h.uc.ListUtilization(r.Context(), filters)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.List(w, items, total, page)
}

func (h *LocationHandler) CheckCapacity(w http.ResponseWriter, r *http.Request) {
	var req capacityCheckRequest
	if err := httpx.Decode(r, &req); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	if err := h.uc.CheckCapacity(r.Context(), req.Assignments); err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func parseFilters(r *http.Request) (*dto.LocationFilters, httpx.Page) {
	page := httpx.ParsePage(r)
	q := r.URL.Query()
	return &dto.LocationFilters{
		Zone:         q.Get("zone"),
		LocationType: q.Get("location_type"),
		IsActive:     httpx.OptionalBool(r, "is_active"),
		SearchQuery:  q.Get("search"),
		Page:         page.Page,
		PageSize:     page.Size,
	}, page
}
