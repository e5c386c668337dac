package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
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

func (r *PGRepository) getInventory(ctx context.Context, query string, args ...interface{}) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.conn(ctx).GetContext(ctx, &inv, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Inventory, error) {
	return r.getInventory(ctx, `SELECT * FROM inventory WHERE id = $1`, id)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Inventory, error) {
	return r.getInventory(ctx, `SELECT * FROM inventory WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) LockByKey(ctx context.Context, productID, locationID string, lotNumber *string) (*model.Inventory, error) {
	query := `
        SELECT * FROM inventory
        WHERE product_id = $1 AND location_id = $2
          AND COALESCE(lot_number, '') = COALESCE($3, '')
        FOR UPDATE`
	return r.getInventory(ctx, query, productID, locationID, lotNumber)
}

func (r *PGRepository) LockByProduct(ctx context.Context, productID string) ([]model.Inventory, error) {
	var rows []model.Inventory
	query := `SELECT * FROM inventory WHERE product_id = $1 ORDER BY created_at, id FOR UPDATE`
	if err := r.conn(ctx).SelectContext(ctx, &rows, query, productID); err != nil {
		return nil, fmt.Errorf("lock inventory rows: %w", err)
	}
	return rows, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var items []model.Inventory
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.ExpiringBefore != nil {
		conditions = append(conditions, "expiry_date IS NOT NULL AND expiry_date < :expiring_before")
		args["expiring_before"] = *f.ExpiringBefore
	}

	where := postgres.Where(conditions)
	if err := postgres.NamedGet(ctx, r.conn(ctx), &count, "SELECT count(*) FROM inventory"+where, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory" + where + " ORDER BY created_at, id" + postgres.LimitOffset(f.Page, f.PageSize)
	if err := postgres.NamedSelect(ctx, r.conn(ctx), &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) Create(ctx context.Context, inv *model.Inventory) error {
	query := `
        INSERT INTO inventory (
            id, product_id, location_id, quantity, lot_number, expiry_date,
            created_at, updated_at
        )
        VALUES (
            :id, :product_id, :location_id, :quantity, :lot_number, :expiry_date,
            :created_at, :updated_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, inv)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM inventory WHERE id = $1 AND quantity = 0`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) AddQuantity(ctx context.Context, id string, delta int) (int, bool, error) {
	var after int
	query := `
        UPDATE inventory
        SET quantity = quantity + $2, updated_at = NOW()
        WHERE id = $1 AND quantity + $2 >= 0
        RETURNING quantity`
	err := r.conn(ctx).GetContext(ctx, &after, query, id, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return after, true, nil
}

const stockLevelColumns = `
    SELECT p.id AS product_id, p.sku, p.name, p.minimum_stock,
           COALESCE(SUM(i.quantity), 0) AS available
    FROM products p
    LEFT JOIN inventory i ON i.product_id = p.id`

func (r *PGRepository) StockLevel(ctx context.Context, productID string) (*model.StockLevel, error) {
	var lvl model.StockLevel
	query := stockLevelColumns + ` WHERE p.id = $1 GROUP BY p.id, p.sku, p.name, p.minimum_stock`
	err := r.conn(ctx).GetContext(ctx, &lvl, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lvl, nil
}

func (r *PGRepository) ListLowStock(ctx context.Context, page, pageSize int) ([]model.StockLevel, int, error) {
	var items []model.StockLevel
	var count int

	lowStock := `
    WHERE NOT p.is_archived
    GROUP BY p.id, p.sku, p.name, p.minimum_stock
    HAVING COALESCE(SUM(i.quantity), 0) <= p.minimum_stock`

	ex := r.conn(ctx)
	if err := ex.GetContext(ctx, &count, `SELECT count(*) FROM (`+stockLevelColumns+lowStock+`) low`); err != nil {
		return nil, 0, err
	}

	query := stockLevelColumns + lowStock + ` ORDER BY available, p.sku` + postgres.LimitOffset(page, pageSize)
	if err := ex.SelectContext(ctx, &items, query); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            id, product_id, location_id, inventory_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :location_id, :inventory_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, m)
	return err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.InventoryID != "" {
		conditions = append(conditions, "inventory_id = :inventory_id")
		args["inventory_id"] = f.InventoryID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	where := postgres.Where(conditions)
	if err := postgres.NamedGet(ctx, r.conn(ctx), &count, "SELECT count(*) FROM inventory_movements"+where, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + where + " ORDER BY created_at DESC" + postgres.LimitOffset(f.Page, f.PageSize)
	if err := postgres.NamedSelect(ctx, r.conn(ctx), &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) getAllocation(ctx context.Context, query, token string) (*model.Allocation, error) {
	ex := r.conn(ctx)

	var a model.Allocation
	if err := ex.GetContext(ctx, &a, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := ex.SelectContext(ctx, &a.Lines,
		`SELECT * FROM allocation_lines WHERE token = $1 ORDER BY created_at, id`, token); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAllocation(ctx context.Context, token string) (*model.Allocation, error) {
	return r.getAllocation(ctx, `SELECT * FROM allocations WHERE token = $1`, token)
}

func (r *PGRepository) LockAllocation(ctx context.Context, token string) (*model.Allocation, error) {
	return r.getAllocation(ctx, `SELECT * FROM allocations WHERE token = $1 FOR UPDATE`, token)
}

func (r *PGRepository) ClaimAllocation(ctx context.Context, a *model.Allocation) (bool, error) {
	query := `
        INSERT INTO allocations (
            token, product_id, order_id, quantity, status, created_by, created_at
        )
        VALUES (
            :token, :product_id, :order_id, :quantity, :status, :created_by, :created_at
        )
        ON CONFLICT (token) DO NOTHING
    `
	res, err := r.conn(ctx).NamedExecContext(ctx, query, a)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) CreateAllocationLines(ctx context.Context, lines []model.AllocationLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
        INSERT INTO allocation_lines (id, token, inventory_id, location_id, quantity, created_at)
        VALUES (:id, :token, :inventory_id, :location_id, :quantity, :created_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, lines)
	return err
}

func (r *PGRepository) MarkAllocationReleased(ctx context.Context, token string, at time.Time) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE allocations SET status = $2, released_at = $3 WHERE token = $1`,
		token, model.AllocationReleased, at)
	return err
}

func (r *PGRepository) ListActiveAllocationTokens(ctx context.Context, orderID string) ([]string, error) {
	var tokens []string
	err := r.conn(ctx).SelectContext(ctx, &tokens,
		`SELECT token FROM allocations WHERE order_id = $1 AND status = $2 ORDER BY token`,
		orderID, model.AllocationActive)
	return tokens, err
}
