// Package ports declares the contracts the application core depends on,
// keeping storage details behind an interface boundary.
package ports

import (
	"context"

	"orders-backend/domain"
)

// Capacity is the per-operation accounting of backend-consumed read/write
// cost units. Cost visibility is a first-class contract of the storage
// layer, so every operation reports it alongside its payload.
type Capacity struct {
	Total float64 `json:"total"`
	RCU   float64 `json:"rcu"`
	WCU   float64 `json:"wcu"`
}

// Add returns the component-wise sum of two capacity reports.
func (c Capacity) Add(other Capacity) Capacity {
	return Capacity{
		Total: c.Total + other.Total,
		RCU:   c.RCU + other.RCU,
		WCU:   c.WCU + other.WCU,
	}
}

// Envelope wraps a repository result with its capacity-cost report.
type Envelope[T any] struct {
	Data     T
	Capacity Capacity
}

// OrderPage is one page of a customer's orders, newest first. Cursor is an
// opaque continuation token; empty means the scan is exhausted.
type OrderPage struct {
	Orders []domain.Order
	Cursor string
}

// OrderRepository is the contract over the single orders table. The
// repository exclusively owns key construction; callers never see or build
// partition or sort keys. Failures are always taxonomy errors, never raw
// backend errors.
type OrderRepository interface {
	// Create writes the order under its composite key. The write is
	// conditional on the key not existing, so a collision surfaces as
	// resource_exists.
	Create(ctx context.Context, order domain.Order) (Envelope[domain.Order], error)

	// BatchCreate writes the orders in backend-sized groups, retrying any
	// unprocessed subset until applied or the retry budget is exhausted.
	// The envelope payload is the number of orders written.
	BatchCreate(ctx context.Context, orders []domain.Order) (Envelope[int], error)

	// Get performs an exact key lookup. A miss reports resource_not_found;
	// the envelope still carries the capacity the read consumed.
	Get(ctx context.Context, customerID, orderID string) (Envelope[domain.Order], error)

	// ListByCustomer scans the customer's partition descending by orderId,
	// one fixed-size page at a time. A customer with no orders yields an
	// empty page, not an error.
	ListByCustomer(ctx context.Context, customerID, cursor string) (Envelope[OrderPage], error)
}
