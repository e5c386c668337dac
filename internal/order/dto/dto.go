package dto

import (
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type OrderFilters struct {
	OrderType      string
	Status         string
	ShippingStatus string
	CustomerID     string
	SupplierID     string
	SearchQuery    string // matched against order_number
	Page           int
	PageSize       int
}

// CreateOrderResult carries the order plus a credit warning when an outbound
// order pushed the customer near their limit.
type CreateOrderResult struct {
	Order         *model.Order                  `json:"order"`
	CreditWarning *fulfillment.CreditAssessment `json:"credit_warning,omitempty"`
	Replayed      bool                          `json:"-"`
}
