package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/location"
	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLocationType = "storage"

type locationUseCase struct {
	repo   location.Repository
	tx     postgres.Transactor
	logger logger.ZapLogger
}

func NewLocationUseCase(repo location.Repository, tx postgres.Transactor, log logger.ZapLogger) location.UseCase {
	return &locationUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error) {
	now := time.Now()
	loc := &model.Location{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Zone:           strings.TrimSpace(input.Zone),
		Aisle:          strings.TrimSpace(input.Aisle),
		Rack:           strings.TrimSpace(input.Rack),
		Bin:            strings.TrimSpace(input.Bin),
		Capacity:       input.Capacity,
		LocationType:   input.LocationType,
		RotationMethod: strings.ToUpper(input.RotationMethod),
		IsActive:       true,
	}
	if err := validate(loc); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueCode(ctx, loc, ""); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, mapWriteError(loc, err)
	}
	return loc, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	loc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperr.NotFound("location", id)
	}
	return loc, nil
}

func (uc *locationUseCase) ListLocations(ctx context.Context, filters *dto.LocationFilters) ([]model.Location, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *locationUseCase) UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Location, error) {
	loc, err := uc.GetLocation(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	loc.Zone = strings.TrimSpace(input.Zone)
	loc.Aisle = strings.TrimSpace(input.Aisle)
	loc.Rack = strings.TrimSpace(input.Rack)
	loc.Bin = strings.TrimSpace(input.Bin)
	loc.Capacity = input.Capacity
	loc.LocationType = input.LocationType
	loc.RotationMethod = strings.ToUpper(input.RotationMethod)
	loc.IsActive = input.IsActive
	loc.UpdatedAt = time.Now()

	if err := validate(loc); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueCode(ctx, loc, loc.ID); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, mapWriteError(loc, err)
	}
	return loc, nil
}

func (uc *locationUseCase) DeleteLocation(ctx context.Context, id string) error {
	if _, err := uc.GetLocation(ctx, id); err != nil {
		return err
	}

	usage, err := uc.repo.Usage(ctx, []string{id})
	if err != nil {
		return err
	}
	if usage[id] > 0 {
		return apperr.Conflict(apperr.CodeInventoryNotEmpty, nil, "location %s still holds stock", id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperr.StillReferenced("location", err)
		}
		return err
	}
	return nil
}

func (uc *locationUseCase) ListUtilization(ctx context.Context, filters *dto.LocationFilters) ([]model.LocationUtilization, int, error) {
	locs, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(locs))
	for i, l := range locs {
		ids[i] = l.ID
	}
	usage, err := uc.repo.Usage(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.LocationUtilization, len(locs))
	for i, l := range locs {
		out[i] = fulfillment.Utilization(l, usage[l.ID])
	}
	return out, count, nil
}

func (uc *locationUseCase) CountOverStock(ctx context.Context) (int, error) {
	locs, _, err := uc.repo.FindAll(ctx, &dto.LocationFilters{})
	if err != nil {
		return 0, err
	}
	usage, err := uc.repo.Usage(ctx, nil)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, l := range locs {
		if usage[l.ID] > l.Capacity {
			n++
		}
	}
	return n, nil
}

func (uc *locationUseCase) CheckCapacity(ctx context.Context, assignments []fulfillment.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		ids := uniqueLocationIDs(assignments)
		locs, err := uc.repo.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]model.Location, len(locs))
		for _, l := range locs {
			byID[l.ID] = l
		}

		usage, err := uc.repo.Usage(ctx, ids)
		if err != nil {
			return err
		}

		if err := fulfillment.CheckCapacity(byID, usage, assignments); err != nil {
			uc.logger.Debug("capacity check rejected batch", zap.Error(err))
			return fulfillment.AppError(err)
		}
		return nil
	})
}

func (uc *locationUseCase) ensureUniqueCode(ctx context.Context, loc *model.Location, excludeID string) error {
	unique, err := uc.repo.IsCodeUnique(ctx, loc, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return duplicateCode(loc)
	}
	return nil
}

func validate(loc *model.Location) error {
	switch {
	case loc.Zone == "":
		return apperr.Required("zone")
	case loc.Aisle == "":
		return apperr.Required("aisle")
	case loc.Rack == "":
		return apperr.Required("rack")
	case loc.Bin == "":
		return apperr.Required("bin")
	case loc.Capacity <= 0:
		return apperr.Invalid("capacity")
	}

	if loc.LocationType == "" {
		loc.LocationType = defaultLocationType
	}
	switch loc.RotationMethod {
	case "":
		loc.RotationMethod = model.RotationFIFO
	case model.RotationFIFO, model.RotationLIFO, model.RotationFEFO:
	default:
		return apperr.Invalid("rotation_method")
	}
	return nil
}

func mapWriteError(loc *model.Location, err error) error {
	if postgres.IsUniqueViolation(err) {
		return duplicateCode(loc)
	}
	return fmt.Errorf("save location: %w", err)
}

func duplicateCode(loc *model.Location) error {
	return apperr.Conflict(apperr.CodeDuplicateLocationCode,
		map[string]interface{}{"Code": loc.Code()}, "location %s already exists", loc.Code())
}

func uniqueLocationIDs(assignments []fulfillment.Assignment) []string {
	seen := make(map[string]struct{}, len(assignments))
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.LocationID]; ok {
			continue
		}
		seen[a.LocationID] = struct{}{}
		ids = append(ids, a.LocationID)
	}
	sort.Strings(ids)
	return ids
}
