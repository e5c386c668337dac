package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Message ids. They double as stable machine-readable error codes in API responses.
const (
	CodeRequiredField          = "required_field"
	CodeInvalidValue           = "invalid_value"
	CodeInvalidQuantity        = "invalid_quantity"
	CodeInsufficientStock      = "insufficient_stock"
	CodeOverCapacity           = "over_capacity"
	CodeUnknownLocation        = "unknown_location"
	CodeCreditLimitExceeded    = "credit_limit_exceeded"
	CodeCreditLimitBelowBal    = "credit_limit_below_balance"
	CodeIllegalTransition      = "illegal_transition"
	CodeDuplicateSKU           = "duplicate_sku"
	CodeDuplicateLocationCode  = "duplicate_location_code"
	CodeTokenReused            = "token_reused"
	CodeConcurrentModification = "concurrent_modification"
	CodeStillReferenced        = "still_referenced"
	CodeInventoryNotEmpty      = "inventory_not_empty"
	CodeOrderClosed            = "order_closed"
	CodeNotFound               = "not_found"
	CodeProductArchived        = "product_archived"
	CodeSystemBusy             = "system_busy"
	CodeInternal               = "internal_error"
)

// Error is the typed error returned across use case boundaries.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Data    map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, code string, data map[string]interface{}, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Data: data}
}

func Validation(code string, data map[string]interface{}, format string, args ...interface{}) *Error {
	return newError(KindValidation, code, data, format, args...)
}

func Conflict(code string, data map[string]interface{}, format string, args ...interface{}) *Error {
	return newError(KindConflict, code, data, format, args...)
}

func Required(field string) *Error {
	return Validation(CodeRequiredField, map[string]interface{}{"Field": field}, "%s is required", field)
}

func Invalid(field string) *Error {
	return Validation(CodeInvalidValue, map[string]interface{}{"Field": field}, "%s has an invalid value", field)
}

func NotFound(entity, id string) *Error {
	return newError(KindNotFound, CodeNotFound,
		map[string]interface{}{"Entity": entity, "ID": id}, "%s %s not found", entity, id)
}

func StillReferenced(entity string, cause error) *Error {
	e := Conflict(CodeStillReferenced, map[string]interface{}{"Entity": entity},
		"%s is still referenced and cannot be deleted", entity)
	e.Err = cause
	return e
}

func ConcurrentModification() *Error {
	return Conflict(CodeConcurrentModification, nil, "record was changed by another request")
}

func Unavailable(format string, args ...interface{}) *Error {
	return newError(KindUnavailable, CodeSystemBusy, nil, format, args...)
}

// Internal wraps an infrastructure failure. The message shown to callers is generic.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal error", Err: err}
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
