package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/customer/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) conn(ctx context.Context) postgres.Executor {
	return postgres.Conn(ctx, r.DB)
}

func (r *PGRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (
            id, name, email, phone, address, credit_limit, current_balance,
            is_active, created_at, updated_at
        )
        VALUES (
            :id, :name, :email, :phone, :address, :credit_limit, :current_balance,
            :is_active, :created_at, :updated_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.get(ctx, `SELECT * FROM customers WHERE id = $1`, id)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.get(ctx, `SELECT * FROM customers WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, id string) (*model.Customer, error) {
	var c model.Customer
	if err := r.conn(ctx).GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var customers []model.Customer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR email ILIKE :search OR phone ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	where := postgres.Where(conditions)
	if err := postgres.NamedGet(ctx, r.conn(ctx), &count, "SELECT count(*) FROM customers"+where, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM customers" + where + " ORDER BY name, id" + postgres.LimitOffset(f.Page, f.PageSize)
	if err := postgres.NamedSelect(ctx, r.conn(ctx), &customers, query, args); err != nil {
		return nil, 0, err
	}
	return customers, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET name = :name,
            email = :email,
            phone = :phone,
            address = :address,
            credit_limit = :credit_limit,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	return err
}

func (r *PGRepository) AddBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE customers SET current_balance = current_balance + $2, updated_at = NOW() WHERE id = $1`, id, delta)
	return err
}

func (r *PGRepository) SetCreditLimit(ctx context.Context, id string, limit decimal.Decimal) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE customers SET credit_limit = $2, updated_at = NOW() WHERE id = $1`, id, limit)
	return err
}

type analyticsRow struct {
	TotalOrders     int             `db:"total_orders"`
	CompletedOrders int             `db:"completed_orders"`
	CancelledOrders int             `db:"cancelled_orders"`
	TotalSpent      decimal.Decimal `db:"total_spent"`
	LastOrderAt     *time.Time      `db:"last_order_at"`
}

// Analytics aggregates the customer's outbound orders. Spend excludes cancelled orders.
func (r *PGRepository) Analytics(ctx context.Context, id string) (*model.CustomerAnalytics, error) {
	query := `
        SELECT
            count(*) AS total_orders,
            count(*) FILTER (WHERE status = 'completed') AS completed_orders,
            count(*) FILTER (WHERE status = 'cancelled') AS cancelled_orders,
            COALESCE(SUM(total_amount) FILTER (WHERE status <> 'cancelled'), 0) AS total_spent,
            MAX(created_at) AS last_order_at
        FROM orders
        WHERE customer_id = $1 AND order_type = 'outbound'
    `
	var row analyticsRow
	if err := r.conn(ctx).GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &model.CustomerAnalytics{
		CustomerID:      id,
		TotalOrders:     row.TotalOrders,
		CompletedOrders: row.CompletedOrders,
		CancelledOrders: row.CancelledOrders,
		TotalSpent:      row.TotalSpent,
		LastOrderAt:     row.LastOrderAt,
	}, nil
}
