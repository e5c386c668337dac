package order

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.CreateOrderResult, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error)
	UpdateShippingStatus(ctx context.Context, input *dto.UpdateShippingStatusInput) (*model.Order, error)
	UpdateShippingDetails(ctx context.Context, input *dto.UpdateShippingDetailsInput) (*model.Order, error)
	ListTracking(ctx context.Context, orderID string) ([]model.ShipmentTracking, error)
}
