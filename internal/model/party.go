package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	BaseModel
	Name           string          `db:"name" json:"name"`
	Email          *string         `db:"email" json:"email"`
	Phone          *string         `db:"phone" json:"phone"`
	Address        *string         `db:"address" json:"address"`
	CreditLimit    decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"current_balance"`
	IsActive       bool            `db:"is_active" json:"is_active"`
}

type CustomerAnalytics struct {
	CustomerID        string          `json:"customer_id"`
	TotalOrders       int             `json:"total_orders"`
	CompletedOrders   int             `json:"completed_orders"`
	CancelledOrders   int             `json:"cancelled_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	LastOrderAt       *time.Time      `json:"last_order_at"`
	CreditUtilization float64         `json:"credit_utilization"`
}

type Supplier struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	ContactName *string `db:"contact_name" json:"contact_name"`
	Email       *string `db:"email" json:"email"`
	Phone       *string `db:"phone" json:"phone"`
	Address     *string `db:"address" json:"address"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}
