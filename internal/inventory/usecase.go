package inventory

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	GetStockLevel(ctx context.Context, productID string) (*model.StockLevel, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.StockLevel, int, error)
	// NotifyLowStock publishes a low-stock event for each product at or below its minimum.
	NotifyLowStock(ctx context.Context, productIDs ...string) error

	GetInventory(ctx context.Context, id string) (*model.Inventory, error)
	ListInventory(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	ReceiveStock(ctx context.Context, input *dto.ReceiveStockInput) (*model.Inventory, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Inventory, error)
	DeleteInventory(ctx context.Context, id string) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	Allocate(ctx context.Context, input *dto.AllocateInput) (*model.Allocation, error)
	GetAllocation(ctx context.Context, token string) (*model.Allocation, error)
	ReleaseAllocation(ctx context.Context, token, userID string) (*model.Allocation, error)
	ReleaseOrderAllocations(ctx context.Context, orderID, userID string) error
}
