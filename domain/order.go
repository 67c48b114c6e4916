// Package domain holds the order aggregate and its construction rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Status is assigned once at creation; no transitions are
// modelled by this service.
const (
	StatusPending    = "PENDING"
	StatusAccepted   = "ACCEPTED"
	StatusDispatched = "DISPATCHED"
	StatusCancelled  = "CANCELLED"
)

// Statuses lists every accepted order status.
var Statuses = []string{StatusPending, StatusAccepted, StatusDispatched, StatusCancelled}

// OrderItem is a single line item. It has no identity of its own and is
// owned exclusively by its parent Order.
type OrderItem struct {
	Product  string  `json:"product" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// Order is the persisted aggregate. OrderID and CreatedAt are
// server-generated; everything else arrives from the client.
type Order struct {
	OrderID    string      `json:"orderId" validate:"required,uuid7"`
	CustomerID string      `json:"customerId" validate:"required,uuid7"`
	Status     string      `json:"status" validate:"required,oneof=PENDING ACCEPTED DISPATCHED CANCELLED"`
	Items      []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total      float64     `json:"total" validate:"required,gt=0"`
	CreatedAt  time.Time   `json:"createdAt" validate:"required"`
}

// CreateOrder is the client-supplied subset of Order, validated before the
// server-generated fields are attached.
type CreateOrder struct {
	CustomerID string      `json:"customerId" validate:"required,uuid7"`
	Status     string      `json:"status" validate:"required,oneof=PENDING ACCEPTED DISPATCHED CANCELLED"`
	Items      []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total      float64     `json:"total" validate:"required,gt=0"`
}

// NewOrderID generates a UUIDv7 order identifier. The timestamp prefix makes
// identifiers sort by creation time, so a sort-key range scan doubles as a
// chronological query.
func NewOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsTimeSortableID reports whether s is a well-formed UUIDv7.
func IsTimeSortableID(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 7
}

// NewOrder attaches the server-generated fields to a validated CreateOrder.
func NewOrder(req CreateOrder, orderID string, createdAt time.Time) Order {
	return Order{
		OrderID:    orderID,
		CustomerID: req.CustomerID,
		Status:     req.Status,
		Items:      req.Items,
		Total:      req.Total,
		CreatedAt:  createdAt.UTC(),
	}
}
