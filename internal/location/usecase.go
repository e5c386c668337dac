package location

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error)
	UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Location, error)
	DeleteLocation(ctx context.Context, id string) error

	ListUtilization(ctx context.Context, filters *dto.LocationFilters) ([]model.LocationUtilization, int, error)
	CountOverStock(ctx context.Context) (int, error)

	// CheckCapacity locks the referenced locations and validates the batch
	// against their current usage. Inside a caller's transaction the locks
	// are held until that transaction ends.
	CheckCapacity(ctx context.Context, assignments []fulfillment.Assignment) error
}
