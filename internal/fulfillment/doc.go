// Package fulfillment holds the stock allocation and order lifecycle rules:
// FIFO planning over inventory rows, location capacity checks, credit limit
// classification, order and shipping status transitions, and order number
// generation.
//
// Everything here is pure. Use cases load rows under lock, ask this package
// what to do, and apply the result inside one transaction.
package fulfillment
