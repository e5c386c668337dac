package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	customers map[string]model.Customer
	analytics model.CustomerAnalytics
	deleteErr error
}

func newMemRepo() *memRepo {
	return &memRepo{customers: map[string]model.Customer{}}
}

func (m *memRepo) Create(_ context.Context, c *model.Customer) error {
	m.customers[c.ID] = *c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memRepo) FindAll(_ context.Context, _ *dto.CustomerFilters) ([]model.Customer, int, error) {
	var out []model.Customer
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, c *model.Customer) error { return m.Create(ctx, c) }

func (m *memRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.customers, id)
	return nil
}

func (m *memRepo) LockByID(ctx context.Context, id string) (*model.Customer, error) {
	return m.FindByID(ctx, id)
}

func (m *memRepo) AddBalance(_ context.Context, id string, delta decimal.Decimal) error {
	c := m.customers[id]
	c.CurrentBalance = c.CurrentBalance.Add(delta)
	m.customers[id] = c
	return nil
}

func (m *memRepo) SetCreditLimit(_ context.Context, id string, limit decimal.Decimal) error {
	c := m.customers[id]
	c.CreditLimit = limit
	m.customers[id] = c
	return nil
}

func (m *memRepo) Analytics(_ context.Context, id string) (*model.CustomerAnalytics, error) {
	a := m.analytics
	a.CustomerID = id
	return &a, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, repo *memRepo, limit, balance string) string {
	t.Helper()
	c := model.Customer{
		BaseModel:      model.BaseModel{ID: "c1"},
		Name:           "Toko Maju",
		CreditLimit:    dec(limit),
		CurrentBalance: dec(balance),
		IsActive:       true,
	}
	repo.customers[c.ID] = c
	return c.ID
}

func TestCreateCustomer(t *testing.T) {
	uc := NewCustomerUseCase(newMemRepo(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateCustomer(ctx, &dto.CreateCustomerInput{Name: "A", CreditLimit: dec("-1")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	c, err := uc.CreateCustomer(ctx, &dto.CreateCustomerInput{Name: " A ", CreditLimit: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, "A", c.Name)
	assert.True(t, c.CurrentBalance.IsZero())
}

func TestUpdateCustomer_limitBelowBalance(t *testing.T) {
	repo := newMemRepo()
	id := seed(t, repo, "1000", "600")
	uc := NewCustomerUseCase(repo, logger.NewNop())

	_, err := uc.UpdateCustomer(context.Background(), &dto.UpdateCustomerInput{
		ID: id, Name: "Toko Maju", CreditLimit: dec("500"), IsActive: true,
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeCreditLimitBelowBal, e.Code)
	assert.True(t, repo.customers[id].CreditLimit.Equal(dec("1000")))

	c, err := uc.UpdateCustomer(context.Background(), &dto.UpdateCustomerInput{
		ID: id, Name: "Toko Maju", CreditLimit: dec("600"), IsActive: true,
	})
	require.NoError(t, err)
	assert.True(t, c.CreditLimit.Equal(dec("600")))
}

func TestEvaluateCredit(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		total   string
		want    fulfillment.CreditStatus
	}{
		{"near limit", "500", "400", fulfillment.CreditNearLimit},
		{"exceeds limit", "900", "200", fulfillment.CreditExceedsLimit},
		{"ok", "0", "100", fulfillment.CreditOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			id := seed(t, repo, "1000", tt.balance)
			uc := NewCustomerUseCase(repo, logger.NewNop())

			a, err := uc.EvaluateCredit(context.Background(), id, dec(tt.total))
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Status)
		})
	}
}

func TestEvaluateCredit_unknownCustomer(t *testing.T) {
	uc := NewCustomerUseCase(newMemRepo(), logger.NewNop())
	_, err := uc.EvaluateCredit(context.Background(), "missing", dec("10"))
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetAnalytics(t *testing.T) {
	repo := newMemRepo()
	id := seed(t, repo, "1000", "250")
	repo.analytics = model.CustomerAnalytics{
		TotalOrders:     4,
		CompletedOrders: 2,
		CancelledOrders: 1,
		TotalSpent:      dec("300"),
	}
	uc := NewCustomerUseCase(repo, logger.NewNop())

	a, err := uc.GetAnalytics(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, a.CustomerID)
	assert.True(t, a.AverageOrderValue.Equal(dec("100")), a.AverageOrderValue.String())
	assert.InDelta(t, 0.25, a.CreditUtilization, 1e-9)
}

func TestDeleteCustomer_referenced(t *testing.T) {
	repo := newMemRepo()
	id := seed(t, repo, "0", "0")
	repo.deleteErr = &pgconn.PgError{Code: "23503"}
	uc := NewCustomerUseCase(repo, logger.NewNop())

	err := uc.DeleteCustomer(context.Background(), id)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeStillReferenced, e.Code)
}
