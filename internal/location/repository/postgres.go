package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-warehouse-service/internal/location/dto"
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

func (r *PGRepository) Create(ctx context.Context, l *model.Location) error {
	query := `
        INSERT INTO warehouse_locations (
            id, zone, aisle, rack, bin, capacity, location_type,
            rotation_method, is_active, created_at, updated_at
        )
        VALUES (
            :id, :zone, :aisle, :rack, :bin, :capacity, :location_type,
            :rotation_method, :is_active, :created_at, :updated_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.conn(ctx).GetContext(ctx, &loc, `SELECT * FROM warehouse_locations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LocationFilters) ([]model.Location, int, error) {
	var items []model.Location
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Zone != "" {
		conditions = append(conditions, "UPPER(zone) = UPPER(:zone)")
		args["zone"] = f.Zone
	}
	if f.LocationType != "" {
		conditions = append(conditions, "location_type = :location_type")
		args["location_type"] = f.LocationType
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(zone || '-' || aisle || '-' || rack || '-' || bin) ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	where := postgres.Where(conditions)
	if err := postgres.NamedGet(ctx, r.conn(ctx), &count, "SELECT count(*) FROM warehouse_locations"+where, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM warehouse_locations" + where +
		" ORDER BY zone, aisle, rack, bin" + postgres.LimitOffset(f.Page, f.PageSize)
	if err := postgres.NamedSelect(ctx, r.conn(ctx), &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *PGRepository) Update(ctx context.Context, l *model.Location) error {
	query := `
        UPDATE warehouse_locations
        SET zone = :zone,
            aisle = :aisle,
            rack = :rack,
            bin = :bin,
            capacity = :capacity,
            location_type = :location_type,
            rotation_method = :rotation_method,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM warehouse_locations WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, l *model.Location, excludeID string) (bool, error) {
	var count int
	query := `
        SELECT count(*) FROM warehouse_locations
        WHERE UPPER(zone) = UPPER($1) AND UPPER(aisle) = UPPER($2)
          AND UPPER(rack) = UPPER($3) AND UPPER(bin) = UPPER($4)`
	args := []interface{}{l.Zone, l.Aisle, l.Rack, l.Bin}
	if excludeID != "" {
		query += ` AND id != $5`
		args = append(args, excludeID)
	}

	if err := r.conn(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) LockByIDs(ctx context.Context, ids []string) ([]model.Location, error) {
	if len(ids) == 0 {
		return []model.Location{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM warehouse_locations WHERE id IN (?) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	ex := r.conn(ctx)
	var items []model.Location
	if err := ex.SelectContext(ctx, &items, ex.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lock locations: %w", err)
	}
	return items, nil
}

func (r *PGRepository) Usage(ctx context.Context, ids []string) (map[string]int, error) {
	type row struct {
		LocationID string `db:"location_id"`
		Used       int    `db:"used"`
	}

	query := `SELECT location_id, COALESCE(SUM(quantity), 0) AS used FROM inventory`
	var args []interface{}
	if ids != nil {
		if len(ids) == 0 {
			return map[string]int{}, nil
		}
		var err error
		query, args, err = sqlx.In(query+` WHERE location_id IN (?)`, ids)
		if err != nil {
			return nil, err
		}
	}
	query += ` GROUP BY location_id`

	ex := r.conn(ctx)
	var rows []row
	if err := ex.SelectContext(ctx, &rows, ex.Rebind(query), args...); err != nil {
		return nil, err
	}

	usage := make(map[string]int, len(rows))
	for _, rw := range rows {
		usage[rw.LocationID] = rw.Used
	}
	return usage, nil
}
