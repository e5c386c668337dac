package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	// Put-away assignment, inbound only.
	LocationID *string
	LotNumber  *string
	ExpiryDate *time.Time
}

type CreateOrderInput struct {
	OrderType            string
	SupplierID           *string
	CustomerID           *string
	ShippingAddress      *string
	ShippingCarrier      *string
	Notes                *string
	Items                []OrderItemInput
	RequestToken         *string
	AutoRaiseCreditLimit bool
	UserID               string
}

type UpdateStatusInput struct {
	OrderID string
	Status  string
	UserID  string
}

type UpdateShippingStatusInput struct {
	OrderID  string
	Status   string
	Location *string
	Notes    *string
	UserID   string
}

// UpdateShippingDetailsInput leaves nil fields unchanged.
type UpdateShippingDetailsInput struct {
	OrderID         string
	ShippingAddress *string
	ShippingCarrier *string
	TrackingNumber  *string
}
