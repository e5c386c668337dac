package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/transport/httpx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	customer.UseCase
	created *dto.CreateCustomerInput
	total   decimal.Decimal
}

func (s *stubUseCase) CreateCustomer(_ context.Context, in *dto.CreateCustomerInput) (*model.Customer, error) {
	s.created = in
	return &model.Customer{BaseModel: model.BaseModel{ID: "c1"}, Name: in.Name, CreditLimit: in.CreditLimit}, nil
}

func (s *stubUseCase) EvaluateCredit(_ context.Context, _ string, total decimal.Decimal) (*fulfillment.CreditAssessment, error) {
	s.total = total
	a := fulfillment.EvaluateCredit(decimal.NewFromInt(1000), decimal.NewFromInt(500), total)
	return &a, nil
}

func newRouter(t *testing.T, uc customer.UseCase) *mux.Router {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	r := mux.NewRouter()
	NewCustomerHandler(uc, httpx.NewResponder(tr, logger.NewNop()), logger.NewNop()).Register(r)
	return r
}

func TestCreateCustomer_decimalLimit(t *testing.T) {
	uc := &stubUseCase{}
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers",
		strings.NewReader(`{"name":"Toko","credit_limit":"1500.50"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.created)
	assert.True(t, uc.created.CreditLimit.Equal(decimal.RequireFromString("1500.50")))
}

func TestEvaluateCredit(t *testing.T) {
	uc := &stubUseCase{}
	rec := httptest.NewRecorder()
	newRouter(t, uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/c1/credit?total=400", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body fulfillment.CreditAssessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, fulfillment.CreditNearLimit, body.Status)
	assert.True(t, uc.total.Equal(decimal.NewFromInt(400)))
}

func TestEvaluateCredit_badTotal(t *testing.T) {
	for _, target := range []string{"/customers/c1/credit", "/customers/c1/credit?total=abc"} {
		rec := httptest.NewRecorder()
		newRouter(t, &stubUseCase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		var body httpx.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, []string{apperr.CodeRequiredField, apperr.CodeInvalidValue}, body.Code)
	}
}
