package fulfillment

import (
	"fmt"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// Assignment proposes putting Quantity units into a location.
type Assignment struct {
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

type CapacityViolation struct {
	LocationID string
	Code       string
	Capacity   int
	Existing   int
	Proposed   int
}

// CapacityError rejects a whole assignment batch. Error names the first
// offending location; Violations lists all of them.
type CapacityError struct {
	Violations []CapacityViolation
}

func (e *CapacityError) Error() string {
	v := e.Violations[0]
	return fmt.Sprintf("location %s over capacity: %d existing + %d proposed > %d",
		v.Code, v.Existing, v.Proposed, v.Capacity)
}

type UnknownLocationError struct {
	LocationID string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location %s", e.LocationID)
}

// CheckCapacity validates a batch of assignments against location capacity.
// usage holds the quantity already stored per location id. Quantities for the
// same location are summed before comparing, and existing+proposed equal to
// capacity is accepted.
func CheckCapacity(locations map[string]model.Location, usage map[string]int, assignments []Assignment) error {
	proposed := make(map[string]int, len(assignments))
	order := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Quantity <= 0 {
			return &InvalidQuantityError{Quantity: a.Quantity}
		}
		if _, ok := locations[a.LocationID]; !ok {
			return &UnknownLocationError{LocationID: a.LocationID}
		}
		if _, seen := proposed[a.LocationID]; !seen {
			order = append(order, a.LocationID)
		}
		proposed[a.LocationID] += a.Quantity
	}

	var violations []CapacityViolation
	for _, id := range order {
		loc := locations[id]
		existing := usage[id]
		if existing+proposed[id] > loc.Capacity {
			violations = append(violations, CapacityViolation{
				LocationID: id,
				Code:       loc.Code(),
				Capacity:   loc.Capacity,
				Existing:   existing,
				Proposed:   proposed[id],
			})
		}
	}

	if len(violations) > 0 {
		return &CapacityError{Violations: violations}
	}
	return nil
}

// Utilization reports how full a location is and whether it is over stock.
func Utilization(loc model.Location, used int) model.LocationUtilization {
	pct := 0.0
	if loc.Capacity > 0 {
		pct = float64(used) / float64(loc.Capacity) * 100
	}
	return model.LocationUtilization{
		Location:    loc,
		Code:        loc.Code(),
		Used:        used,
		Utilization: pct,
		OverStock:   used > loc.Capacity,
	}
}
