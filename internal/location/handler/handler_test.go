package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	location.UseCase
	created     *dto.CreateLocationInput
	capacityErr error
}

func (s *stubUseCase) CreateLocation(_ context.Context, in *dto.CreateLocationInput) (*model.Location, error) {
	s.created = in
	return &model.Location{BaseModel: model.BaseModel{ID: "loc-1"}, Zone: in.Zone, Capacity: in.Capacity}, nil
}

func (s *stubUseCase) GetLocation(_ context.Context, id string) (*model.Location, error) {
	return nil, apperr.NotFound("location", id)
}

func (s *stubUseCase) CheckCapacity(_ context.Context, _ []fulfillment.Assignment) error {
	return s.capacityErr
}

func newRouter(t *testing.T, uc location.UseCase) *mux.Router {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	r := mux.NewRouter()
	NewLocationHandler(uc, httpx.NewResponder(tr, logger.NewNop()), logger.NewNop()).Register(r)
	return r
}

func TestCreateLocation(t *testing.T) {
	uc := &stubUseCase{}
	r := newRouter(t, uc)

	req := httptest.NewRequest(http.MethodPost, "/locations", strings.NewReader(`{"zone":"A","aisle":"1","rack":"2","bin":"3","capacity":50}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.created)
	assert.Equal(t, 50, uc.created.Capacity)
}

func TestGetLocation_notFound(t *testing.T) {
	r := newRouter(t, &stubUseCase{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locations/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeNotFound, body.Code)
}

func TestCheckCapacity_overCapacity(t *testing.T) {
	capErr := fulfillment.AppError(&fulfillment.CapacityError{Violations: []fulfillment.CapacityViolation{
		{LocationID: "l1", Code: "A-1-2-3", Capacity: 100, Existing: 80, Proposed: 30},
	}})
	r := newRouter(t, &stubUseCase{capacityErr: capErr})

	req := httptest.NewRequest(http.MethodPost, "/locations/capacity-check",
		strings.NewReader(`{"assignments":[{"location_id":"l1","quantity":30}]}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeOverCapacity, body.Code)
	assert.Contains(t, body.Message, "A-1-2-3")
}
