package customer

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	EvaluateCredit(ctx context.Context, customerID string, total decimal.Decimal) (*fulfillment.CreditAssessment, error)
	GetAnalytics(ctx context.Context, customerID string) (*model.CustomerAnalytics, error)
}
