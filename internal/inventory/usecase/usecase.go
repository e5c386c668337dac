package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/event"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockRetries  = 3
	lockInterval = 100 * time.Millisecond
	lockTTL      = 5 * time.Second
)

// ProductFinder is the slice of the product repository inventory needs.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

// CapacityChecker validates put-away batches against location capacity.
type CapacityChecker interface {
	CheckCapacity(ctx context.Context, assignments []fulfillment.Assignment) error
}

// Locker is a distributed mutex, implemented by cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type inventoryUseCase struct {
	repo      inventory.Repository
	products  ProductFinder
	capacity  CapacityChecker
	tx        postgres.Transactor
	locker    Locker
	publisher event.Publisher
	logger    logger.ZapLogger
	runAsync  func(fn func())
}

func NewInventoryUseCase(
	repo inventory.Repository,
	products ProductFinder,
	capacity CapacityChecker,
	tx postgres.Transactor,
	locker Locker,
	publisher event.Publisher,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		products:  products,
		capacity:  capacity,
		tx:        tx,
		locker:    locker,
		publisher: publisher,
		logger:    log,
		runAsync:  func(fn func()) { go fn() },
	}
}

func (uc *inventoryUseCase) GetStockLevel(ctx context.Context, productID string) (*model.StockLevel, error) {
	lvl, err := uc.repo.StockLevel(ctx, productID)
	if err != nil {
		return nil, err
	}
	if lvl == nil {
		return nil, apperr.NotFound("product", productID)
	}
	lvl.LowStock = lvl.Available <= lvl.MinimumStock
	return lvl, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]model.StockLevel, int, error) {
	items, count, err := uc.repo.ListLowStock(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].LowStock = true
	}
	return items, count, nil
}

func (uc *inventoryUseCase) NotifyLowStock(ctx context.Context, productIDs ...string) error {
	for _, id := range productIDs {
		lvl, err := uc.GetStockLevel(ctx, id)
		if err != nil {
			return err
		}
		if !lvl.LowStock {
			continue
		}
		uc.publish(ctx, id, event.TypeLowStockDetected, event.LowStockPayload{
			ProductID:    lvl.ProductID,
			SKU:          lvl.SKU,
			Available:    lvl.Available,
			MinimumStock: lvl.MinimumStock,
		})
	}
	return nil
}

func (uc *inventoryUseCase) GetInventory(ctx context.Context, id string) (*model.Inventory, error) {
	inv, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperr.NotFound("inventory", id)
	}
	return inv, nil
}

func (uc *inventoryUseCase) ListInventory(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ReceiveStock(ctx context.Context, input *dto.ReceiveStockInput) (*model.Inventory, error) {
	switch {
	case input.ProductID == "":
		return nil, apperr.Required("product_id")
	case input.LocationID == "":
		return nil, apperr.Required("location_id")
	case input.Quantity <= 0:
		return nil, fulfillment.AppError(&fulfillment.InvalidQuantityError{Quantity: input.Quantity})
	}
	lookup := uc.activeProduct
	if input.AllowArchived {
		lookup = uc.findProduct
	}
	if _, err := lookup(ctx, input.ProductID); err != nil {
		return nil, err
	}

	var result *model.Inventory
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		err := uc.capacity.CheckCapacity(ctx, []fulfillment.Assignment{{
			LocationID: input.LocationID,
			Quantity:   input.Quantity,
		}})
		if err != nil {
			return err
		}

		now := time.Now()
		inv, err := uc.repo.LockByKey(ctx, input.ProductID, input.LocationID, input.LotNumber)
		if err != nil {
			return err
		}

		before := 0
		if inv == nil {
			inv = &model.Inventory{
				ID:         uuid.New().String(),
				ProductID:  input.ProductID,
				LocationID: input.LocationID,
				Quantity:   input.Quantity,
				LotNumber:  input.LotNumber,
				ExpiryDate: input.ExpiryDate,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := uc.repo.Create(ctx, inv); err != nil {
				if postgres.IsUniqueViolation(err) {
					return apperr.ConcurrentModification()
				}
				return fmt.Errorf("create inventory row: %w", err)
			}
		} else {
			before = inv.Quantity
			after, ok, err := uc.repo.AddQuantity(ctx, inv.ID, input.Quantity)
			if err != nil {
				return fmt.Errorf("add inventory quantity: %w", err)
			}
			if !ok {
				return apperr.ConcurrentModification()
			}
			inv.Quantity = after
			inv.UpdatedAt = now
		}

		result = inv
		return uc.logMovement(ctx, inv, model.MovementReceipt, before, inv.Quantity,
			orDefault(input.ReferenceType, dto.ReferenceManualReceipt), input.ReferenceID, input.Notes, input.UserID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Inventory, error) {
	if input.InventoryID == "" {
		return nil, apperr.Required("inventory_id")
	}
	if input.QuantityChange == 0 {
		return nil, fulfillment.AppError(&fulfillment.InvalidQuantityError{Quantity: 0})
	}

	lockKey := fmt.Sprintf("lock:inventory:%s", input.InventoryID)
	lockValue := uuid.New().String()
	if err := uc.acquireLock(ctx, lockKey, lockValue); err != nil {
		return nil, err
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release inventory lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	var result *model.Inventory
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := uc.repo.LockByID(ctx, input.InventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperr.NotFound("inventory", input.InventoryID)
		}

		before := inv.Quantity
		if before+input.QuantityChange < 0 {
			return uc.insufficient(inv.ProductID, before, -input.QuantityChange)
		}

		after, ok, err := uc.repo.AddQuantity(ctx, inv.ID, input.QuantityChange)
		if err != nil {
			return fmt.Errorf("adjust inventory: %w", err)
		}
		if !ok {
			return apperr.ConcurrentModification()
		}
		inv.Quantity = after
		inv.UpdatedAt = time.Now()

		result = inv
		return uc.logMovement(ctx, inv, model.MovementAdjustment, before, after,
			orDefault(input.ReferenceType, "manual_adjustment"), input.ReferenceID, input.Reason, input.UserID)
	})
	if err != nil {
		return nil, err
	}

	if input.QuantityChange < 0 {
		uc.notifyLowStockAsync(result.ProductID)
	}
	return result, nil
}

func (uc *inventoryUseCase) DeleteInventory(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	inv, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return apperr.NotFound("inventory", id)
	}
	return apperr.Conflict(apperr.CodeInventoryNotEmpty, nil, "inventory row %s still holds %d units", id, inv.Quantity)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) Allocate(ctx context.Context, input *dto.AllocateInput) (*model.Allocation, error) {
	switch {
	case input.Token == "":
		return nil, apperr.Required("token")
	case input.ProductID == "":
		return nil, apperr.Required("product_id")
	case input.Quantity <= 0:
		return nil, fulfillment.AppError(&fulfillment.InvalidQuantityError{Quantity: input.Quantity})
	}

	// Events are published by whoever owns the outermost transaction.
	ownsTx := !postgres.InTx(ctx)

	var (
		result   *model.Allocation
		replayed bool
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := uc.repo.FindAllocation(ctx, input.Token)
		if err != nil {
			return err
		}
		if existing != nil {
			result, replayed = existing, true
			return sameAllocation(existing, input)
		}

		if _, err := uc.activeProduct(ctx, input.ProductID); err != nil {
			return err
		}

		now := time.Now()
		alloc := &model.Allocation{
			Token:     input.Token,
			ProductID: input.ProductID,
			OrderID:   input.OrderID,
			Quantity:  input.Quantity,
			Status:    model.AllocationActive,
			CreatedBy: auth.ActorID(input.UserID),
			CreatedAt: now,
		}
		created, err := uc.repo.ClaimAllocation(ctx, alloc)
		if err != nil {
			return fmt.Errorf("claim allocation: %w", err)
		}
		if !created {
			// A concurrent request committed the same token first.
			existing, err := uc.repo.FindAllocation(ctx, input.Token)
			if err != nil {
				return err
			}
			if existing == nil {
				return apperr.ConcurrentModification()
			}
			result, replayed = existing, true
			return sameAllocation(existing, input)
		}

		rows, err := uc.repo.LockByProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		plan, err := fulfillment.PlanFIFO(rows, input.Quantity)
		if err != nil {
			appErr := fulfillment.AppError(err)
			if e, ok := apperr.As(appErr); ok && e.Data != nil {
				e.Data["ProductID"] = input.ProductID
			}
			return appErr
		}

		alloc.Lines = make([]model.AllocationLine, 0, len(plan))
		for _, d := range plan {
			after, ok, err := uc.repo.AddQuantity(ctx, d.InventoryID, -d.Quantity)
			if err != nil {
				return fmt.Errorf("deduct inventory: %w", err)
			}
			if !ok {
				return apperr.ConcurrentModification()
			}

			alloc.Lines = append(alloc.Lines, model.AllocationLine{
				ID:          uuid.New().String(),
				Token:       alloc.Token,
				InventoryID: d.InventoryID,
				LocationID:  d.LocationID,
				Quantity:    d.Quantity,
				CreatedAt:   now,
			})

			row := &model.Inventory{ID: d.InventoryID, ProductID: input.ProductID, LocationID: d.LocationID}
			if err := uc.logMovement(ctx, row, model.MovementAllocation, d.Before, after,
				"allocation", alloc.Token, "", input.UserID); err != nil {
				return err
			}
		}

		if err := uc.repo.CreateAllocationLines(ctx, alloc.Lines); err != nil {
			return fmt.Errorf("create allocation lines: %w", err)
		}
		result = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ownsTx && !replayed {
		uc.publish(ctx, result.ProductID, event.TypeStockAllocated, event.StockAllocatedPayload{
			Token:     result.Token,
			ProductID: result.ProductID,
			OrderID:   result.OrderID,
			Quantity:  result.Quantity,
		})
		uc.notifyLowStockAsync(result.ProductID)
	}
	return result, nil
}

func (uc *inventoryUseCase) GetAllocation(ctx context.Context, token string) (*model.Allocation, error) {
	a, err := uc.repo.FindAllocation(ctx, token)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("allocation", token)
	}
	return a, nil
}

func (uc *inventoryUseCase) ReleaseAllocation(ctx context.Context, token, userID string) (*model.Allocation, error) {
	var result *model.Allocation
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := uc.repo.LockAllocation(ctx, token)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.NotFound("allocation", token)
		}
		result = a
		if a.Status == model.AllocationReleased {
			return nil
		}

		for _, line := range a.Lines {
			after, ok, err := uc.repo.AddQuantity(ctx, line.InventoryID, line.Quantity)
			if err != nil {
				return fmt.Errorf("restock inventory: %w", err)
			}
			if !ok {
				uc.logger.Warn("inventory row gone, skipping release line",
					zap.String("token", token),
					zap.String("inventory_id", line.InventoryID),
					zap.Int("quantity", line.Quantity),
				)
				continue
			}

			row := &model.Inventory{ID: line.InventoryID, ProductID: a.ProductID, LocationID: line.LocationID}
			if err := uc.logMovement(ctx, row, model.MovementRelease, after-line.Quantity, after,
				"allocation", token, "", userID); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := uc.repo.MarkAllocationReleased(ctx, token, now); err != nil {
			return fmt.Errorf("mark allocation released: %w", err)
		}
		a.Status = model.AllocationReleased
		a.ReleasedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *inventoryUseCase) ReleaseOrderAllocations(ctx context.Context, orderID, userID string) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		tokens, err := uc.repo.ListActiveAllocationTokens(ctx, orderID)
		if err != nil {
			return err
		}
		for _, token := range tokens {
			if _, err := uc.ReleaseAllocation(ctx, token, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (uc *inventoryUseCase) findProduct(ctx context.Context, productID string) (*model.Product, error) {
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", productID)
	}
	return p, nil
}

func (uc *inventoryUseCase) activeProduct(ctx context.Context, productID string) (*model.Product, error) {
	p, err := uc.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.IsArchived {
		return nil, apperr.Validation(apperr.CodeProductArchived,
			map[string]interface{}{"SKU": p.SKU}, "product %s is archived", p.SKU)
	}
	return p, nil
}

func (uc *inventoryUseCase) acquireLock(ctx context.Context, key, value string) error {
	for i := 0; i < lockRetries; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockInterval):
		}
	}
	return apperr.Unavailable("system busy, please try again later (lock %s)", key)
}

func (uc *inventoryUseCase) insufficient(productID string, available, required int) error {
	e := fulfillment.AppError(&fulfillment.InsufficientStockError{Available: available, Required: required})
	if ae, ok := apperr.As(e); ok {
		ae.Data["ProductID"] = productID
	}
	return e
}

func (uc *inventoryUseCase) logMovement(ctx context.Context, inv *model.Inventory, movementType string,
	before, after int, refType, refID, notes, userID string) error {
	locationID, inventoryID := inv.LocationID, inv.ID
	m := &model.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      inv.ProductID,
		LocationID:     &locationID,
		InventoryID:    &inventoryID,
		MovementType:   movementType,
		QuantityChange: after - before,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceType:  optional(refType),
		ReferenceID:    optional(refID),
		Notes:          notes,
		CreatedBy:      auth.ActorID(userID),
		CreatedAt:      time.Now(),
	}
	if err := uc.repo.LogMovement(ctx, m); err != nil {
		return fmt.Errorf("log movement: %w", err)
	}
	return nil
}

func (uc *inventoryUseCase) publish(ctx context.Context, key, eventType string, payload interface{}) {
	if err := uc.publisher.Publish(ctx, key, eventType, payload); err != nil {
		uc.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (uc *inventoryUseCase) notifyLowStockAsync(productID string) {
	uc.runAsync(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.NotifyLowStock(ctx, productID); err != nil {
			uc.logger.Error("low stock check failed", zap.String("product_id", productID), zap.Error(err))
		}
	})
}

func sameAllocation(existing *model.Allocation, input *dto.AllocateInput) error {
	if existing.ProductID == input.ProductID && existing.Quantity == input.Quantity {
		return nil
	}
	return apperr.Conflict(apperr.CodeTokenReused, map[string]interface{}{"Token": input.Token},
		"allocation token %s was already used for a different request", input.Token)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
