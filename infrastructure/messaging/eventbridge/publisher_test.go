package eventbridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orders-backend/domain"
)

type fakeEventBridge struct {
	inputs []*awseventbridge.PutEventsInput
	err    error
}

func (f *fakeEventBridge) PutEvents(_ context.Context, params *awseventbridge.PutEventsInput, _ ...func(*awseventbridge.Options)) (*awseventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &awseventbridge.PutEventsOutput{}, nil
}

func testOrder() domain.Order {
	return domain.Order{
		OrderID:    "01912c2f-aaaa-7bdd-8f5e-1c8a3a6f9d3e",
		CustomerID: "01912c2f-6c2f-7bdd-8f5e-1c8a3a6f9d3e",
		Status:     domain.StatusPending,
		Items:      []domain.OrderItem{{Product: "Coffee", Quantity: 2, Price: 19.99}},
		Total:      39.98,
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOrderCreatedPublishesEntry(t *testing.T) {
	fake := &fakeEventBridge{}
	publisher := NewEventBridgePublisher(fake, "orders-events", zap.NewNop())

	publisher.OrderCreated(context.Background(), testOrder())

	require.Len(t, fake.inputs, 1)
	require.Len(t, fake.inputs[0].Entries, 1)
	entry := fake.inputs[0].Entries[0]

	assert.Equal(t, "orders-events", aws.ToString(entry.EventBusName))
	assert.Equal(t, "orders-backend", aws.ToString(entry.Source))
	assert.Equal(t, "OrderCreated", aws.ToString(entry.DetailType))

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "01912c2f-aaaa-7bdd-8f5e-1c8a3a6f9d3e", detail["orderId"])
	assert.Equal(t, 39.98, detail["total"])
}

func TestOrderCreatedSwallowsPublishFailure(t *testing.T) {
	fake := &fakeEventBridge{err: assert.AnError}
	publisher := NewEventBridgePublisher(fake, "orders-events", zap.NewNop())

	assert.NotPanics(t, func() {
		publisher.OrderCreated(context.Background(), testOrder())
	})
	assert.Len(t, fake.inputs, 1)
}
