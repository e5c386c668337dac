package fulfillment

import (
	"fmt"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusCompleted:  {},
	model.OrderStatusCancelled:  {},
}

var shippingTransitions = map[model.ShippingStatus][]model.ShippingStatus{
	model.ShippingStatusPending:   {model.ShippingStatusInTransit},
	model.ShippingStatusInTransit: {model.ShippingStatusDelivered, model.ShippingStatusFailed},
	model.ShippingStatusDelivered: {},
	model.ShippingStatusFailed:    {},
}

type TransitionError struct {
	Machine string
	From    string
	To      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition %s -> %s", e.Machine, e.From, e.To)
}

type InvalidStatusError struct {
	Machine string
	Value   string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Machine, e.Value)
}

func ValidateOrderTransition(from, to model.OrderStatus) error {
	if !to.Valid() {
		return &InvalidStatusError{Machine: "order status", Value: string(to)}
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{Machine: "order status", From: string(from), To: string(to)}
}

func ValidateShippingTransition(from, to model.ShippingStatus) error {
	if !to.Valid() {
		return &InvalidStatusError{Machine: "shipping status", Value: string(to)}
	}
	for _, next := range shippingTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{Machine: "shipping status", From: string(from), To: string(to)}
}

func IsTerminalOrderStatus(s model.OrderStatus) bool {
	return len(orderTransitions[s]) == 0
}

func IsTerminalShippingStatus(s model.ShippingStatus) bool {
	return len(shippingTransitions[s]) == 0
}
