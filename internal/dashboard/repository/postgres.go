package repository

import (
	"context"

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

func (r *PGRepository) ProductCounts(ctx context.Context) (int, int, error) {
	var row struct {
		Total    int `db:"total"`
		Archived int `db:"archived"`
	}
	err := r.conn(ctx).GetContext(ctx, &row, `
        SELECT count(*) AS total,
               count(*) FILTER (WHERE is_archived) AS archived
        FROM products
    `)
	return row.Total, row.Archived, err
}

func (r *PGRepository) StockTotals(ctx context.Context) (int, decimal.Decimal, error) {
	var row struct {
		Units int             `db:"units"`
		Value decimal.Decimal `db:"value"`
	}
	err := r.conn(ctx).GetContext(ctx, &row, `
        SELECT COALESCE(SUM(i.quantity), 0) AS units,
               COALESCE(SUM(i.quantity * p.price), 0) AS value
        FROM inventory i
        JOIN products p ON p.id = i.product_id
    `)
	return row.Units, row.Value, err
}

func (r *PGRepository) LowStockCount(ctx context.Context) (int, error) {
	var count int
	err := r.conn(ctx).GetContext(ctx, &count, `
        SELECT count(*) FROM (
            SELECT p.id
            FROM products p
            LEFT JOIN inventory i ON i.product_id = p.id
            WHERE NOT p.is_archived
            GROUP BY p.id, p.minimum_stock
            HAVING COALESCE(SUM(i.quantity), 0) <= p.minimum_stock
        ) low
    `)
	return count, err
}

func (r *PGRepository) OrderCounts(ctx context.Context) (map[model.OrderStatus]int, map[model.ShippingStatus]int, error) {
	var rows []struct {
		Status         model.OrderStatus    `db:"status"`
		ShippingStatus model.ShippingStatus `db:"shipping_status"`
		Count          int                  `db:"count"`
	}
	err := r.conn(ctx).SelectContext(ctx, &rows,
		`SELECT status, shipping_status, count(*) AS count FROM orders GROUP BY status, shipping_status`)
	if err != nil {
		return nil, nil, err
	}

	byStatus := map[model.OrderStatus]int{}
	byShipping := map[model.ShippingStatus]int{}
	for _, row := range rows {
		byStatus[row.Status] += row.Count
		byShipping[row.ShippingStatus] += row.Count
	}
	return byStatus, byShipping, nil
}

func (r *PGRepository) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.conn(ctx).SelectContext(ctx, &orders,
		`SELECT * FROM orders ORDER BY created_at DESC, id LIMIT $1`, limit)
	return orders, err
}
