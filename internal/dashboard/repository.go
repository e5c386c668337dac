package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	ProductCounts(ctx context.Context) (total, archived int, err error)
	StockTotals(ctx context.Context) (units int, value decimal.Decimal, err error)
	LowStockCount(ctx context.Context) (int, error)
	OrderCounts(ctx context.Context) (map[model.OrderStatus]int, map[model.ShippingStatus]int, error)
	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
}
