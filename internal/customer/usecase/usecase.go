package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer"
	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Required("name")
	}
	if input.CreditLimit.IsNegative() {
		return nil, apperr.Invalid("credit_limit")
	}

	now := time.Now()
	c := &model.Customer{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           name,
		Email:          optional(input.Email),
		Phone:          optional(input.Phone),
		Address:        optional(input.Address),
		CreditLimit:    input.CreditLimit,
		CurrentBalance: decimal.Zero,
		IsActive:       true,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("customer", id)
	}
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	c, err := uc.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Required("name")
	}
	if input.CreditLimit.IsNegative() {
		return nil, apperr.Invalid("credit_limit")
	}
	if input.CreditLimit.LessThan(c.CurrentBalance) {
		return nil, apperr.Validation(apperr.CodeCreditLimitBelowBal, map[string]interface{}{
			"Limit":   input.CreditLimit.StringFixed(2),
			"Balance": c.CurrentBalance.StringFixed(2),
		}, "credit limit %s is below the current balance %s",
			input.CreditLimit.StringFixed(2), c.CurrentBalance.StringFixed(2))
	}

	c.Name = name
	c.Email = optional(input.Email)
	c.Phone = optional(input.Phone)
	c.Address = optional(input.Address)
	c.CreditLimit = input.CreditLimit
	c.IsActive = input.IsActive
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := uc.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperr.StillReferenced("customer", err)
		}
		return err
	}
	return nil
}

func (uc *customerUseCase) EvaluateCredit(ctx context.Context, customerID string, total decimal.Decimal) (*fulfillment.CreditAssessment, error) {
	if total.IsNegative() {
		return nil, apperr.Invalid("total")
	}
	c, err := uc.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	a := fulfillment.EvaluateCredit(c.CreditLimit, c.CurrentBalance, total)
	return &a, nil
}

func (uc *customerUseCase) GetAnalytics(ctx context.Context, customerID string) (*model.CustomerAnalytics, error) {
	c, err := uc.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	a, err := uc.repo.Analytics(ctx, customerID)
	if err != nil {
		return nil, err
	}

	a.AverageOrderValue = decimal.Zero
	if billed := a.TotalOrders - a.CancelledOrders; billed > 0 {
		a.AverageOrderValue = a.TotalSpent.Div(decimal.NewFromInt(int64(billed))).Round(2)
	}
	if c.CreditLimit.IsPositive() {
		a.CreditUtilization = c.CurrentBalance.Div(c.CreditLimit).Round(4).InexactFloat64()
	}
	return a, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
