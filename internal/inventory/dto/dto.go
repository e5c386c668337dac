package dto

import "time"

type InventoryFilters struct {
	ProductID      string
	LocationID     string
	ExpiringBefore *time.Time
	Page           int
	PageSize       int
}

type MovementFilters struct {
	ProductID    string
	LocationID   string
	InventoryID  string
	MovementType string
	ReferenceID  string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
