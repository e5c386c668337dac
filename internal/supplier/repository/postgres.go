package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/supplier/dto"
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

func (r *PGRepository) Create(ctx context.Context, s *model.Supplier) error {
	query := `
        INSERT INTO suppliers (
            id, name, contact_name, email, phone, address, is_active, created_at, updated_at
        )
        VALUES (
            :id, :name, :contact_name, :email, :phone, :address, :is_active, :created_at, :updated_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Supplier, error) {
	var s model.Supplier
	err := r.conn(ctx).GetContext(ctx, &s, `SELECT * FROM suppliers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SupplierFilters) ([]model.Supplier, int, error) {
	var items []model.Supplier
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR contact_name ILIKE :search OR email ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	ex := r.conn(ctx)
	where := postgres.Where(conditions)
	if err := postgres.NamedGet(ctx, ex, &count, "SELECT count(*) FROM suppliers"+where, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM suppliers" + where + " ORDER BY name, id" + postgres.LimitOffset(f.Page, f.PageSize)
	if err := postgres.NamedSelect(ctx, ex, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) Update(ctx context.Context, s *model.Supplier) error {
	query := `
        UPDATE suppliers
        SET name = :name,
            contact_name = :contact_name,
            email = :email,
            phone = :phone,
            address = :address,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	return err
}
