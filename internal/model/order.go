package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeInbound  OrderType = "inbound"
	OrderTypeOutbound OrderType = "outbound"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeInbound || t == OrderTypeOutbound
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "pending"
	ShippingStatusInTransit ShippingStatus = "in_transit"
	ShippingStatusDelivered ShippingStatus = "delivered"
	ShippingStatusFailed    ShippingStatus = "failed"
)

func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusInTransit, ShippingStatusDelivered, ShippingStatusFailed:
		return true
	}
	return false
}

type Order struct {
	BaseModel
	OrderNumber     string          `db:"order_number" json:"order_number"`
	OrderType       OrderType       `db:"order_type" json:"order_type"`
	Status          OrderStatus     `db:"status" json:"status"`
	ShippingStatus  ShippingStatus  `db:"shipping_status" json:"shipping_status"`
	SupplierID      *string         `db:"supplier_id" json:"supplier_id"`
	CustomerID      *string         `db:"customer_id" json:"customer_id"`
	ShippingAddress *string         `db:"shipping_address" json:"shipping_address"`
	ShippingCarrier *string         `db:"shipping_carrier" json:"shipping_carrier"`
	TrackingNumber  *string         `db:"tracking_number" json:"tracking_number"`
	Notes           *string         `db:"notes" json:"notes"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	RequestToken    *string         `db:"request_token" json:"request_token"`
	CreatedBy       *string         `db:"created_by" json:"created_by"`

	Items    []OrderItem        `db:"-" json:"items,omitempty"`
	Tracking []ShipmentTracking `db:"-" json:"tracking,omitempty"`
}

func (o *Order) IsClosed() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

type OrderItem struct {
	ID         string          `db:"id" json:"id"`
	OrderID    string          `db:"order_id" json:"order_id"`
	ProductID  string          `db:"product_id" json:"product_id"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal   decimal.Decimal `db:"subtotal" json:"subtotal"`
	LocationID *string         `db:"location_id" json:"location_id"`
	LotNumber  *string         `db:"lot_number" json:"lot_number"`
	ExpiryDate *time.Time      `db:"expiry_date" json:"expiry_date"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

type ShipmentTracking struct {
	ID        string         `db:"id" json:"id"`
	OrderID   string         `db:"order_id" json:"order_id"`
	Status    ShippingStatus `db:"status" json:"status"`
	Location  *string        `db:"location" json:"location"`
	Notes     *string        `db:"notes" json:"notes"`
	CreatedBy *string        `db:"created_by" json:"created_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
