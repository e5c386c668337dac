package dto

import "github.com/shopspring/decimal"

type CreateCustomerInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	CreditLimit decimal.Decimal
}

type UpdateCustomerInput struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Address     string
	CreditLimit decimal.Decimal
	IsActive    bool
}
