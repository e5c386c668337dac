package location

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, loc *model.Location) error
	FindByID(ctx context.Context, id string) (*model.Location, error)
	FindAll(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	Update(ctx context.Context, loc *model.Location) error
	Delete(ctx context.Context, id string) error

	IsCodeUnique(ctx context.Context, loc *model.Location, excludeID string) (bool, error)

	// LockByIDs selects the locations FOR UPDATE in id order. It must run inside a transaction.
	LockByIDs(ctx context.Context, ids []string) ([]model.Location, error)
	// Usage sums inventory quantity per location. A nil ids slice means all locations.
	Usage(ctx context.Context, ids []string) (map[string]int, error)
}
