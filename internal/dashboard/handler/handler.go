package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/dashboard"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	rs     *httpx.Responder
	logger logger.ZapLogger
}

func NewDashboardHandler(uc dashboard.UseCase, rs *httpx.Responder, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		rs:     rs,
		logger: log,
	}
}

func (h *DashboardHandler) Register(r *mux.Router) {
	r.HandleFunc("/dashboard", h.GetMetrics).Methods(http.MethodGet)
}

func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.uc.GetMetrics(r.Context())
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}
	h.rs.JSON(w, http.StatusOK, m)
}
