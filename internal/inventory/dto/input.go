package dto

import "time"

// Receipt reference types.
const (
	ReferenceManualReceipt = "manual_receipt"
	ReferenceInboundOrder  = "inbound_order"
)

// ReceiveStockInput describes one put-away. AllowArchived is set by inbound
// order completion, whose products were validated when the order was placed.
type ReceiveStockInput struct {
	ProductID     string
	LocationID    string
	Quantity      int
	LotNumber     *string
	ExpiryDate    *time.Time
	ReferenceType string
	ReferenceID   string
	Notes         string
	UserID        string
	AllowArchived bool
}

type AdjustStockInput struct {
	InventoryID    string
	QuantityChange int
	Reason         string
	ReferenceType  string
	ReferenceID    string
	UserID         string
}

type AllocateInput struct {
	Token     string
	ProductID string
	Quantity  int
	OrderID   *string
	UserID    string
}
