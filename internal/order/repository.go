package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
)

type Repository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	// FindByID and LockByID load the order items as well.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	LockByID(ctx context.Context, id string) (*model.Order, error)
	FindByRequestToken(ctx context.Context, token string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	OrderNumberExists(ctx context.Context, number string) (bool, error)

	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error
	UpdateShippingStatus(ctx context.Context, id string, status model.ShippingStatus, at time.Time) error
	UpdateShippingDetails(ctx context.Context, order *model.Order) error

	AddTracking(ctx context.Context, entry *model.ShipmentTracking) error
	LastTrackingTime(ctx context.Context, orderID string) (*time.Time, error)
	ListTracking(ctx context.Context, orderID string) ([]model.ShipmentTracking, error)
}
