package fulfillment

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsAt(base time.Time, quantities ...int) []model.Inventory {
	rows := make([]model.Inventory, len(quantities))
	for i, q := range quantities {
		rows[i] = model.Inventory{
			ID:         string(rune('a' + i)),
			ProductID:  "p1",
			LocationID: "loc-" + string(rune('a'+i)),
			Quantity:   q,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
	}
	return rows
}

func applyPlan(rows []model.Inventory, plan []Deduction) map[string]int {
	after := make(map[string]int, len(rows))
	for _, r := range rows {
		after[r.ID] = r.Quantity
	}
	for _, d := range plan {
		after[d.InventoryID] -= d.Quantity
	}
	return after
}

func TestPlanFIFO(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("oldest row alone satisfies the request", func(t *testing.T) {
		plan, err := PlanFIFO(rowsAt(base, 10, 5), 4)
		require.NoError(t, err)
		require.Len(t, plan, 1)
		assert.Equal(t, Deduction{InventoryID: "a", LocationID: "loc-a", Quantity: 4, Before: 10}, plan[0])
		assert.Equal(t, 6, plan[0].After())
	})

	t.Run("drains oldest rows before touching newer ones", func(t *testing.T) {
		rows := rowsAt(base, 3, 4, 10)
		plan, err := PlanFIFO(rows, 9)
		require.NoError(t, err)

		after := applyPlan(rows, plan)
		assert.Equal(t, 0, after["a"])
		assert.Equal(t, 0, after["b"])
		assert.Equal(t, 8, after["c"])
	})

	t.Run("ignores input order and uses creation time", func(t *testing.T) {
		rows := rowsAt(base, 5, 5)
		reversed := []model.Inventory{rows[1], rows[0]}

		plan, err := PlanFIFO(reversed, 5)
		require.NoError(t, err)
		require.Len(t, plan, 1)
		assert.Equal(t, "a", plan[0].InventoryID)
	})

	t.Run("ties on creation time break by id", func(t *testing.T) {
		rows := []model.Inventory{
			{ID: "z", Quantity: 5, CreatedAt: base},
			{ID: "m", Quantity: 5, CreatedAt: base},
		}
		plan, err := PlanFIFO(rows, 3)
		require.NoError(t, err)
		assert.Equal(t, "m", plan[0].InventoryID)
	})

	t.Run("skips empty rows", func(t *testing.T) {
		plan, err := PlanFIFO(rowsAt(base, 0, 2), 2)
		require.NoError(t, err)
		require.Len(t, plan, 1)
		assert.Equal(t, "b", plan[0].InventoryID)
	})

	t.Run("exact total drains everything", func(t *testing.T) {
		rows := rowsAt(base, 2, 3)
		plan, err := PlanFIFO(rows, 5)
		require.NoError(t, err)
		for _, q := range applyPlan(rows, plan) {
			assert.Zero(t, q)
		}
	})

	t.Run("insufficient stock returns no plan", func(t *testing.T) {
		plan, err := PlanFIFO(rowsAt(base, 2, 3), 6)
		assert.Nil(t, plan)

		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 5, insufficient.Available)
		assert.Equal(t, 6, insufficient.Required)
	})

	t.Run("no rows", func(t *testing.T) {
		_, err := PlanFIFO(nil, 1)
		var insufficient *InsufficientStockError
		assert.ErrorAs(t, err, &insufficient)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		for _, q := range []int{0, -3} {
			_, err := PlanFIFO(rowsAt(base, 5), q)
			var invalid *InvalidQuantityError
			assert.ErrorAs(t, err, &invalid)
		}
	})
}

func TestPlanFIFO_conservesStock(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	rows := rowsAt(base, 7, 1, 12, 4, 9)
	total := Available(rows)

	for q := 1; q <= total; q++ {
		plan, err := PlanFIFO(rows, q)
		require.NoError(t, err, "q=%d", q)

		after := applyPlan(rows, plan)
		sum := 0
		for _, v := range after {
			assert.GreaterOrEqual(t, v, 0, "q=%d", q)
			sum += v
		}
		assert.Equal(t, total-q, sum, "q=%d", q)

		// Every row touched before the last one in the plan must be drained.
		for i := 0; i < len(plan)-1; i++ {
			assert.Zero(t, plan[i].After(), "q=%d row %s", q, plan[i].InventoryID)
		}
	}
}
