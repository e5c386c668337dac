package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/supplier/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	suppliers map[string]model.Supplier
	deleteErr error
}

func (m *memRepo) Create(_ context.Context, s *model.Supplier) error {
	m.suppliers[s.ID] = *s
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memRepo) FindAll(_ context.Context, _ *dto.SupplierFilters) ([]model.Supplier, int, error) {
	var out []model.Supplier
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, s *model.Supplier) error { return m.Create(ctx, s) }

func (m *memRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.suppliers, id)
	return nil
}

func TestSupplierLifecycle(t *testing.T) {
	repo := &memRepo{suppliers: map[string]model.Supplier{}}
	uc := NewSupplierUseCase(repo, logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "  "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	s, err := uc.CreateSupplier(ctx, &dto.CreateSupplierInput{Name: "Acme", Email: "ops@acme.test"})
	require.NoError(t, err)
	assert.True(t, s.IsActive)
	assert.Nil(t, s.Phone)
	require.NotNil(t, s.Email)

	updated, err := uc.UpdateSupplier(ctx, &dto.UpdateSupplierInput{ID: s.ID, Name: "Acme Ltd", IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.Email)

	repo.deleteErr = &pgconn.PgError{Code: "23503"}
	err = uc.DeleteSupplier(ctx, s.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	repo.deleteErr = nil
	require.NoError(t, uc.DeleteSupplier(ctx, s.ID))
	_, err = uc.GetSupplier(ctx, s.ID)
	assert.True(t, apperr.IsNotFound(err))
}
