package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderIDIsTimeSortable(t *testing.T) {
	id, err := NewOrderID()
	require.NoError(t, err)
	assert.True(t, IsTimeSortableID(id))
}

func TestNewOrderIDsSortByCreationTime(t *testing.T) {
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		id, err := NewOrderID()
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(time.Millisecond)
	}

	assert.True(t, sort.StringsAreSorted(ids))
}

func TestIsTimeSortableIDRejectsOtherVersions(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"uuid v7", "01912c2f-6c2f-7bdd-8f5e-1c8a3a6f9d3e", true},
		{"uuid v4", "d94f3f01-9f8e-4e6b-9c7a-2b1f0e3d4c5a", false},
		{"not a uuid", "order-123", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTimeSortableID(tt.id))
		})
	}
}

func TestNewOrderAttachesServerFields(t *testing.T) {
	req := CreateOrder{
		CustomerID: "01912c2f-6c2f-7bdd-8f5e-1c8a3a6f9d3e",
		Status:     StatusPending,
		Items:      []OrderItem{{Product: "Coffee", Quantity: 2, Price: 19.99}},
		Total:      39.98,
	}
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	order := NewOrder(req, "01912c2f-aaaa-7bdd-8f5e-1c8a3a6f9d3e", createdAt)

	assert.Equal(t, "01912c2f-aaaa-7bdd-8f5e-1c8a3a6f9d3e", order.OrderID)
	assert.Equal(t, req.CustomerID, order.CustomerID)
	assert.Equal(t, req.Items, order.Items)
	assert.Equal(t, time.UTC, order.CreatedAt.Location())
	assert.True(t, order.CreatedAt.Equal(createdAt))
}
