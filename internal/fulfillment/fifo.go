package fulfillment

import (
	"fmt"
	"sort"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// Deduction is one step of an allocation plan: take Quantity from an inventory row.
type Deduction struct {
	InventoryID string
	LocationID  string
	Quantity    int
	Before      int
}

func (d Deduction) After() int { return d.Before - d.Quantity }

type InsufficientStockError struct {
	Available int
	Required  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, required %d", e.Available, e.Required)
}

type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be positive, got %d", e.Quantity)
}

// Available sums quantity over rows.
func Available(rows []model.Inventory) int {
	total := 0
	for _, r := range rows {
		total += r.Quantity
	}
	return total
}

// SortFIFO orders rows oldest first. Rows created at the same instant are
// ordered by id so the plan is deterministic.
func SortFIFO(rows []model.Inventory) []model.Inventory {
	sorted := make([]model.Inventory, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// PlanFIFO drains rows oldest first until required is covered. When the rows
// cannot cover required it returns *InsufficientStockError and no plan, so a
// caller that only applies returned plans never mutates on failure.
func PlanFIFO(rows []model.Inventory, required int) ([]Deduction, error) {
	if required <= 0 {
		return nil, &InvalidQuantityError{Quantity: required}
	}

	available := Available(rows)
	if available < required {
		return nil, &InsufficientStockError{Available: available, Required: required}
	}

	remaining := required
	plan := make([]Deduction, 0, len(rows))
	for _, row := range SortFIFO(rows) {
		if remaining == 0 {
			break
		}
		if row.Quantity <= 0 {
			continue
		}
		take := min(remaining, row.Quantity)
		plan = append(plan, Deduction{
			InventoryID: row.ID,
			LocationID:  row.LocationID,
			Quantity:    take,
			Before:      row.Quantity,
		})
		remaining -= take
	}

	return plan, nil
}
