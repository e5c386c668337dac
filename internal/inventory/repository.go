package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type Repository interface {
	// Inventory rows
	FindByID(ctx context.Context, id string) (*model.Inventory, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	Create(ctx context.Context, inv *model.Inventory) error
	Delete(ctx context.Context, id string) (bool, error)

	// Row locks, only meaningful inside a transaction
	LockByID(ctx context.Context, id string) (*model.Inventory, error)
	LockByKey(ctx context.Context, productID, locationID string, lotNumber *string) (*model.Inventory, error)
	LockByProduct(ctx context.Context, productID string) ([]model.Inventory, error)

	// AddQuantity applies delta only when the result stays non-negative. ok is
	// false when no row matched.
	AddQuantity(ctx context.Context, id string, delta int) (after int, ok bool, err error)

	// Ledger views
	StockLevel(ctx context.Context, productID string) (*model.StockLevel, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.StockLevel, int, error)

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// Allocations
	FindAllocation(ctx context.Context, token string) (*model.Allocation, error)
	LockAllocation(ctx context.Context, token string) (*model.Allocation, error)
	// ClaimAllocation inserts the allocation header. created is false when the
	// token already exists.
	ClaimAllocation(ctx context.Context, a *model.Allocation) (created bool, err error)
	CreateAllocationLines(ctx context.Context, lines []model.AllocationLine) error
	MarkAllocationReleased(ctx context.Context, token string, at time.Time) error
	ListActiveAllocationTokens(ctx context.Context, orderID string) ([]string, error)
}
