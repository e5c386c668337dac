package customer

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id string) error

	// LockByID reads the customer row with FOR UPDATE. Must run inside a transaction.
	LockByID(ctx context.Context, id string) (*model.Customer, error)
	AddBalance(ctx context.Context, id string, delta decimal.Decimal) error
	SetCreditLimit(ctx context.Context, id string, limit decimal.Decimal) error

	Analytics(ctx context.Context, id string) (*model.CustomerAnalytics, error)
}
