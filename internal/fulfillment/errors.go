package fulfillment

import (
	"errors"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
)

// AppError maps the rule violations of this package onto typed application
// errors. Other errors are returned unchanged.
func AppError(err error) error {
	var (
		insufficient *InsufficientStockError
		capacity     *CapacityError
		unknownLoc   *UnknownLocationError
		badQty       *InvalidQuantityError
		transition   *TransitionError
		badStatus    *InvalidStatusError
	)

	switch {
	case errors.As(err, &insufficient):
		e := apperr.Validation(apperr.CodeInsufficientStock, map[string]interface{}{
			"Available": insufficient.Available,
			"Required":  insufficient.Required,
		}, "insufficient stock: available %d, requested %d", insufficient.Available, insufficient.Required)
		e.Err = err
		return e
	case errors.As(err, &capacity):
		v := capacity.Violations[0]
		e := apperr.Validation(apperr.CodeOverCapacity, map[string]interface{}{
			"Location": v.Code,
			"Capacity": v.Capacity,
			"Existing": v.Existing,
			"Proposed": v.Proposed,
		}, "location %s is over capacity", v.Code)
		e.Err = err
		return e
	case errors.As(err, &unknownLoc):
		return apperr.Validation(apperr.CodeUnknownLocation,
			map[string]interface{}{"LocationID": unknownLoc.LocationID},
			"location %s does not exist", unknownLoc.LocationID)
	case errors.As(err, &badQty):
		return apperr.Validation(apperr.CodeInvalidQuantity, nil, "quantity must be greater than zero")
	case errors.As(err, &transition):
		e := apperr.Conflict(apperr.CodeIllegalTransition,
			map[string]interface{}{"From": transition.From, "To": transition.To},
			"cannot change %s from %s to %s", transition.Machine, transition.From, transition.To)
		e.Err = err
		return e
	case errors.As(err, &badStatus):
		return apperr.Invalid(badStatus.Machine)
	}
	return err
}
