package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	SKU          string
	Name         string
	Description  string
	Price        decimal.Decimal
	MinimumStock int
}

type UpdateProductInput struct {
	ID           string
	SKU          string
	Name         string
	Description  string
	Price        decimal.Decimal
	MinimumStock int
}
