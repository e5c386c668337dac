package model

import "github.com/shopspring/decimal"

type DashboardMetrics struct {
	ProductCount         int                    `json:"product_count"`
	ArchivedProductCount int                    `json:"archived_product_count"`
	TotalUnits           int                    `json:"total_units"`
	StockValue           decimal.Decimal        `json:"stock_value"`
	LowStockCount        int                    `json:"low_stock_count"`
	OverStockLocations   int                    `json:"over_stock_locations"`
	OrdersByStatus       map[OrderStatus]int    `json:"orders_by_status"`
	OrdersByShipping     map[ShippingStatus]int `json:"orders_by_shipping_status"`
	RecentOrders         []Order                `json:"recent_orders"`
}
