package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{ calls int }

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type memRepo struct {
	locs   map[string]*model.Location
	usage  map[string]int
	locked []string
}

func newMemRepo() *memRepo {
	return &memRepo{locs: map[string]*model.Location{}, usage: map[string]int{}}
}

func (m *memRepo) Create(_ context.Context, l *model.Location) error {
	cp := *l
	m.locs[l.ID] = &cp
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Location, error) {
	l, ok := m.locs[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memRepo) FindAll(_ context.Context, _ *dto.LocationFilters) ([]model.Location, int, error) {
	out := make([]model.Location, 0, len(m.locs))
	for _, l := range m.locs {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, l *model.Location) error { return m.Create(ctx, l) }

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.locs, id)
	return nil
}

func (m *memRepo) IsCodeUnique(_ context.Context, l *model.Location, excludeID string) (bool, error) {
	for id, other := range m.locs {
		if id != excludeID && other.Code() == l.Code() {
			return false, nil
		}
	}
	return true, nil
}

func (m *memRepo) LockByIDs(_ context.Context, ids []string) ([]model.Location, error) {
	m.locked = append(m.locked, ids...)
	var out []model.Location
	for _, id := range ids {
		if l, ok := m.locs[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memRepo) Usage(_ context.Context, ids []string) (map[string]int, error) {
	out := map[string]int{}
	for id, used := range m.usage {
		out[id] = used
	}
	return out, nil
}

func newTestUseCase() (*locationUseCase, *memRepo, *passthroughTx) {
	repo := newMemRepo()
	tx := &passthroughTx{}
	uc := NewLocationUseCase(repo, tx, logger.NewNop()).(*locationUseCase)
	return uc, repo, tx
}

func createLocation(t *testing.T, uc *locationUseCase, bin string, capacity int) *model.Location {
	t.Helper()
	loc, err := uc.CreateLocation(context.Background(), &dto.CreateLocationInput{
		Zone: "a", Aisle: "01", Rack: "r1", Bin: bin, Capacity: capacity,
	})
	require.NoError(t, err)
	return loc
}

func TestCreateLocation_defaults(t *testing.T) {
	uc, _, _ := newTestUseCase()

	loc := createLocation(t, uc, "b1", 100)
	assert.Equal(t, "A-01-R1-B1", loc.Code())
	assert.Equal(t, model.RotationFIFO, loc.RotationMethod)
	assert.Equal(t, defaultLocationType, loc.LocationType)
	assert.True(t, loc.IsActive)
}

func TestCreateLocation_validation(t *testing.T) {
	uc, _, _ := newTestUseCase()

	tests := []struct {
		name  string
		input dto.CreateLocationInput
	}{
		{"missing zone", dto.CreateLocationInput{Aisle: "1", Rack: "1", Bin: "1", Capacity: 1}},
		{"zero capacity", dto.CreateLocationInput{Zone: "A", Aisle: "1", Rack: "1", Bin: "1"}},
		{"bad rotation", dto.CreateLocationInput{Zone: "A", Aisle: "1", Rack: "1", Bin: "1", Capacity: 1, RotationMethod: "random"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateLocation(context.Background(), &tt.input)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestCreateLocation_duplicateCodeIsCaseInsensitive(t *testing.T) {
	uc, _, _ := newTestUseCase()
	createLocation(t, uc, "b1", 100)

	_, err := uc.CreateLocation(context.Background(), &dto.CreateLocationInput{
		Zone: "A", Aisle: "01", Rack: "R1", Bin: "B1", Capacity: 5,
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeDuplicateLocationCode, e.Code)
}

func TestCheckCapacity(t *testing.T) {
	uc, repo, tx := newTestUseCase()
	loc := createLocation(t, uc, "b1", 100)
	repo.usage[loc.ID] = 80

	err := uc.CheckCapacity(context.Background(), []fulfillment.Assignment{{LocationID: loc.ID, Quantity: 30}})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeOverCapacity, e.Code)
	assert.Equal(t, "A-01-R1-B1", e.Data["Location"])

	err = uc.CheckCapacity(context.Background(), []fulfillment.Assignment{{LocationID: loc.ID, Quantity: 20}})
	assert.NoError(t, err)
	assert.Equal(t, 2, tx.calls)
	assert.Equal(t, []string{loc.ID, loc.ID}, repo.locked)
}

func TestCheckCapacity_unknownLocation(t *testing.T) {
	uc, _, _ := newTestUseCase()

	err := uc.CheckCapacity(context.Background(), []fulfillment.Assignment{{LocationID: "missing", Quantity: 1}})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnknownLocation, e.Code)
}

func TestDeleteLocation(t *testing.T) {
	uc, repo, _ := newTestUseCase()
	loc := createLocation(t, uc, "b1", 10)
	repo.usage[loc.ID] = 3

	err := uc.DeleteLocation(context.Background(), loc.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	repo.usage[loc.ID] = 0
	require.NoError(t, uc.DeleteLocation(context.Background(), loc.ID))

	err = uc.DeleteLocation(context.Background(), loc.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUtilizationAndOverStock(t *testing.T) {
	uc, repo, _ := newTestUseCase()
	full := createLocation(t, uc, "b1", 10)
	half := createLocation(t, uc, "b2", 10)
	repo.usage[full.ID] = 12
	repo.usage[half.ID] = 5

	rows, total, err := uc.ListUtilization(context.Background(), &dto.LocationFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, r := range rows {
		assert.Equal(t, r.Location.ID == full.ID, r.OverStock)
	}

	n, err := uc.CountOverStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
