package model

import "time"

// Inventory is one stock row: a quantity of a product at a location, optionally tied to a lot.
type Inventory struct {
	ID         string     `db:"id" json:"id"`
	ProductID  string     `db:"product_id" json:"product_id"`
	LocationID string     `db:"location_id" json:"location_id"`
	Quantity   int        `db:"quantity" json:"quantity"`
	LotNumber  *string    `db:"lot_number" json:"lot_number"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiry_date"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	MovementReceipt    = "receipt"
	MovementAdjustment = "adjustment"
	MovementAllocation = "allocation"
	MovementRelease    = "release"
)

type InventoryMovement struct {
	ID             string    `db:"id" json:"id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	LocationID     *string   `db:"location_id" json:"location_id"`
	InventoryID    *string   `db:"inventory_id" json:"inventory_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StockLevel is the ledger view of a product: the sum over all its inventory rows.
type StockLevel struct {
	ProductID    string `db:"product_id" json:"product_id"`
	SKU          string `db:"sku" json:"sku"`
	Name         string `db:"name" json:"name"`
	Available    int    `db:"available" json:"available"`
	MinimumStock int    `db:"minimum_stock" json:"minimum_stock"`
	LowStock     bool   `db:"-" json:"low_stock"`
}

const (
	AllocationActive   = "active"
	AllocationReleased = "released"
)

// Allocation records one FIFO deduction request keyed by its idempotency token.
type Allocation struct {
	Token      string           `db:"token" json:"token"`
	ProductID  string           `db:"product_id" json:"product_id"`
	OrderID    *string          `db:"order_id" json:"order_id"`
	Quantity   int              `db:"quantity" json:"quantity"`
	Status     string           `db:"status" json:"status"`
	CreatedBy  *string          `db:"created_by" json:"created_by"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	ReleasedAt *time.Time       `db:"released_at" json:"released_at"`
	Lines      []AllocationLine `db:"-" json:"lines"`
}

type AllocationLine struct {
	ID          string    `db:"id" json:"id"`
	Token       string    `db:"token" json:"-"`
	InventoryID string    `db:"inventory_id" json:"inventory_id"`
	LocationID  string    `db:"location_id" json:"location_id"`
	Quantity    int       `db:"quantity" json:"quantity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
