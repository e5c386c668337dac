package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
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

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, order_number, order_type, status, shipping_status, supplier_id, customer_id,
            shipping_address, shipping_carrier, tracking_number, notes, total_amount,
            request_token, created_by, created_at, updated_at
        )
        VALUES (
            :id, :order_number, :order_type, :status, :shipping_status, :supplier_id, :customer_id,
            :shipping_address, :shipping_carrier, :tracking_number, :notes, :total_amount,
            :request_token, :created_by, :created_at, :updated_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO order_items (
            id, order_id, product_id, quantity, unit_price, subtotal,
            location_id, lot_number, expiry_date, created_at
        )
        VALUES (
            :id, :order_id, :product_id, :quantity, :unit_price, :subtotal,
            :location_id, :lot_number, :expiry_date, :created_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, items)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getWithItems(ctx, `SELECT * FROM orders WHERE id = $1`, id)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getWithItems(ctx, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) FindByRequestToken(ctx context.Context, token string) (*model.Order, error) {
	return r.getWithItems(ctx, `SELECT * FROM orders WHERE request_token = $1`, token)
}

func (r *PGRepository) getWithItems(ctx context.Context, query string, arg string) (*model.Order, error) {
	var o model.Order
	if err := r.conn(ctx).GetContext(ctx, &o, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err := r.conn(ctx).SelectContext(ctx, &o.Items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at, id`, o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.OrderType != "" {
		conditions = append(conditions, "order_type = :order_type")
		args["order_type"] = f.OrderType
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ShippingStatus != "" {
		conditions = append(conditions, "shipping_status = :shipping_status")
		args["shipping_status"] = f.ShippingStatus
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "order_number ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	where := postgres.Where(conditions)
	if err := postgres.NamedGet(ctx, r.conn(ctx), &count, "SELECT count(*) FROM orders"+where, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM orders" + where + " ORDER BY created_at DESC, id" + postgres.LimitOffset(f.Page, f.PageSize)
	if err := postgres.NamedSelect(ctx, r.conn(ctx), &orders, query, args); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.conn(ctx).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, number)
	return exists, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	return err
}

func (r *PGRepository) UpdateShippingStatus(ctx context.Context, id string, status model.ShippingStatus, at time.Time) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET shipping_status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	return err
}

func (r *PGRepository) UpdateShippingDetails(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET shipping_address = :shipping_address,
            shipping_carrier = :shipping_carrier,
            tracking_number = :tracking_number,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) AddTracking(ctx context.Context, t *model.ShipmentTracking) error {
	query := `
        INSERT INTO shipment_tracking (id, order_id, status, location, notes, created_by, created_at)
        VALUES (:id, :order_id, :status, :location, :notes, :created_by, :created_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, t)
	return err
}

func (r *PGRepository) LastTrackingTime(ctx context.Context, orderID string) (*time.Time, error) {
	var last sql.NullTime
	err := r.conn(ctx).GetContext(ctx, &last,
		`SELECT MAX(created_at) FROM shipment_tracking WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *PGRepository) ListTracking(ctx context.Context, orderID string) ([]model.ShipmentTracking, error) {
	var entries []model.ShipmentTracking
	err := r.conn(ctx).SelectContext(ctx, &entries,
		`SELECT * FROM shipment_tracking WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	return entries, err
}
