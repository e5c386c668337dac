package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestAddQuantity_conditionalUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)
	query := regexp.QuoteMeta("UPDATE inventory SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1 AND quantity + $2 >= 0 RETURNING quantity")

	mock.ExpectQuery(query).WithArgs("r1", -3).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(2))
	mock.ExpectQuery(query).WithArgs("r1", -9).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}))

	after, ok, err := repo.AddQuantity(context.Background(), "r1", -3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, after)

	_, ok, err = repo.AddQuantity(context.Background(), "r1", -9)
	require.NoError(t, err)
	assert.False(t, ok, "a deduction that would go negative matches no row")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_onlyEmptyRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM inventory WHERE id = $1 AND quantity = 0")).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "r1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockByProduct_ordersByCreation(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	cols := []string{"id", "product_id", "location_id", "quantity", "lot_number", "expiry_date", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM inventory WHERE product_id = $1 ORDER BY created_at, id FOR UPDATE")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r1", "p1", "l1", 5, nil, nil, now, now).
			AddRow("r2", "p1", "l2", 7, "LOT", nil, now, now))

	rows, err := repo.LockByProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "r1", rows[0].ID)
	require.NotNil(t, rows[1].LotNumber)
	assert.Equal(t, "LOT", *rows[1].LotNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimAllocation(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := &model.Allocation{Token: "t1", ProductID: "p1", Quantity: 2, Status: model.AllocationActive, CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO allocations")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO allocations")).WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.ClaimAllocation(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.ClaimAllocation(context.Background(), a)
	require.NoError(t, err)
	assert.False(t, created, "ON CONFLICT DO NOTHING reports an existing token")
	assert.NoError(t, mock.ExpectationsWereMet())
}
