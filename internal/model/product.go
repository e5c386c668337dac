package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU          string          `db:"sku" json:"sku"`
	Name         string          `db:"name" json:"name"`
	Description  *string         `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price"`
	MinimumStock int             `db:"minimum_stock" json:"minimum_stock"`
	IsArchived   bool            `db:"is_archived" json:"is_archived"`
}
