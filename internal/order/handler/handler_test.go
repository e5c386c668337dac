package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	order.UseCase
	created  *dto.CreateOrderInput
	replayed bool
	status   *dto.UpdateStatusInput
	err      error
}

func (s *stubUseCase) CreateOrder(_ context.Context, in *dto.CreateOrderInput) (*dto.CreateOrderResult, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	warning := fulfillment.EvaluateCredit(decimal.NewFromInt(1000), decimal.NewFromInt(500), decimal.NewFromInt(400))
	return &dto.CreateOrderResult{
		Order:         &model.Order{BaseModel: model.BaseModel{ID: "o1"}, OrderNumber: "ORD-20250314-0042"},
		CreditWarning: &warning,
		Replayed:      s.replayed,
	}, nil
}

func (s *stubUseCase) UpdateStatus(_ context.Context, in *dto.UpdateStatusInput) (*model.Order, error) {
	s.status = in
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{BaseModel: model.BaseModel{ID: in.OrderID}, Status: model.OrderStatus(in.Status)}, nil
}

func newRouter(t *testing.T, uc order.UseCase) *mux.Router {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	r := mux.NewRouter()
	NewOrderHandler(uc, httpx.NewResponder(tr, logger.NewNop()), logger.NewNop()).Register(r)
	return r
}

const createBody = `{
	"order_type": "outbound",
	"customer_id": "c1",
	"auto_raise_credit_limit": true,
	"items": [{"product_id": "p1", "quantity": 4, "unit_price": "100.00"}]
}`

func TestCreateOrder(t *testing.T) {
	uc := &stubUseCase{}
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createBody))
	req.Header.Set(auth.HeaderUserID, "clerk-7")
	req.Header.Set(HeaderIdempotencyKey, "key-1")
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.created)
	assert.Equal(t, "clerk-7", uc.created.UserID)
	assert.True(t, uc.created.AutoRaiseCreditLimit)
	require.NotNil(t, uc.created.RequestToken)
	assert.Equal(t, "key-1", *uc.created.RequestToken)
	require.Len(t, uc.created.Items, 1)
	assert.True(t, uc.created.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)))

	var body struct {
		Order         model.Order                   `json:"order"`
		CreditWarning *fulfillment.CreditAssessment `json:"credit_warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ORD-20250314-0042", body.Order.OrderNumber)
	require.NotNil(t, body.CreditWarning)
	assert.Equal(t, fulfillment.CreditNearLimit, body.CreditWarning.Status)
}

func TestCreateOrder_replayReturnsOK(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t, &stubUseCase{replayed: true}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createBody)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrder_creditExceededLocalized(t *testing.T) {
	uc := &stubUseCase{err: apperr.Validation(apperr.CodeCreditLimitExceeded, map[string]interface{}{
		"NewBalance": "1100.00",
		"Limit":      "1000.00",
	}, "credit exceeded")}
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createBody)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeCreditLimitExceeded, body.Code)
	assert.Contains(t, body.Message, "1100.00")
}

func TestUpdateStatus_illegalTransition(t *testing.T) {
	uc := &stubUseCase{err: fulfillment.AppError(&fulfillment.TransitionError{
		Machine: "order status", From: "pending", To: "completed",
	})}
	req := httptest.NewRequest(http.MethodPut, "/orders/o1/status", strings.NewReader(`{"status":"completed"}`))
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, uc.status)
	assert.Equal(t, "o1", uc.status.OrderID)
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeIllegalTransition, body.Code)
}
