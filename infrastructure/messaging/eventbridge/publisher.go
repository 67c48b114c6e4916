// Package eventbridge publishes domain events to an EventBridge bus for
// downstream collaborators such as the payment service.
package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"orders-backend/domain"
)

const (
	eventSource      = "orders-backend"
	orderCreatedType = "OrderCreated"
)

// Publisher emits events after state changes. Publishing is best effort and
// never influences the request outcome.
type Publisher interface {
	OrderCreated(ctx context.Context, order domain.Order)
}

// NoopPublisher drops events. Used when no event bus is configured.
type NoopPublisher struct{}

// OrderCreated implements Publisher.
func (NoopPublisher) OrderCreated(context.Context, domain.Order) {}

// EventBridgeAPI is the subset of the EventBridge client the publisher uses.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *awseventbridge.PutEventsInput, optFns ...func(*awseventbridge.Options)) (*awseventbridge.PutEventsOutput, error)
}

// EventBridgePublisher publishes events to a named bus.
type EventBridgePublisher struct {
	client  EventBridgeAPI
	busName string
	logger  *zap.Logger
}

// NewEventBridgePublisher creates a publisher for the given bus.
func NewEventBridgePublisher(client EventBridgeAPI, busName string, logger *zap.Logger) *EventBridgePublisher {
	return &EventBridgePublisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// OrderCreated publishes the order as an OrderCreated event. Failures are
// logged and dropped.
func (p *EventBridgePublisher) OrderCreated(ctx context.Context, order domain.Order) {
	detail, err := json.Marshal(order)
	if err != nil {
		p.logger.Warn("failed to encode order event",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
		return
	}

	_, err = p.client.PutEvents(ctx, &awseventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(orderCreatedType),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		p.logger.Warn("failed to publish order event",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
	}
}
