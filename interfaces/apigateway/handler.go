package apigateway

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"orders-backend/application/ports"
	"orders-backend/domain"
	"orders-backend/infrastructure/messaging/eventbridge"
	apperrors "orders-backend/pkg/errors"
)

// Route keys the handler serves. Anything else is a routing miss.
const (
	routeCreateOrder    = "POST /orders"
	routeGetOrder       = "GET /customers/{customer_id}/orders/{order_id}"
	routeCustomerOrders = "GET /customers/{customer_id}/orders"
)

// Handler routes inbound request descriptors to the three order operations.
// Each request executes independently and statelessly; the repository handle
// behind it is the only shared resource.
type Handler struct {
	repo      ports.OrderRepository
	publisher eventbridge.Publisher
	mapper    *ResponseMapper
	logger    *zap.Logger

	now        func() time.Time
	newOrderID func() (string, error)
}

// NewHandler wires the pipeline. A nil publisher disables event publishing.
func NewHandler(repo ports.OrderRepository, publisher eventbridge.Publisher, logger *zap.Logger) *Handler {
	if publisher == nil {
		publisher = eventbridge.NoopPublisher{}
	}
	return &Handler{
		repo:       repo,
		publisher:  publisher,
		mapper:     NewResponseMapper(logger),
		logger:     logger,
		now:        time.Now,
		newOrderID: domain.NewOrderID,
	}
}

// Handle dispatches one API Gateway proxy event through the static route
// table.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	routeKey := req.HTTPMethod + " " + req.Resource

	h.logger.Debug("request received",
		zap.String("route", routeKey),
		zap.String("path", req.Path),
	)

	switch routeKey {
	case routeCreateOrder:
		return h.createOrder(ctx, req), nil
	case routeGetOrder:
		return h.getOrder(ctx, req), nil
	case routeCustomerOrders:
		return h.customerOrders(ctx, req), nil
	default:
		return h.mapper.NotFoundRoute(), nil
	}
}

func (h *Handler) createOrder(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	body, err := jsonBody(req)
	if err != nil {
		return h.mapper.Failure(err)
	}

	input, err := decodeCreateOrder(body)
	if err != nil {
		return h.mapper.Failure(err)
	}

	orderID, err := h.newOrderID()
	if err != nil {
		return h.mapper.Failure(apperrors.NewInternalFailure("failed to generate order ID", err))
	}

	order := domain.NewOrder(input, orderID, h.now())

	envelope, err := h.repo.Create(ctx, order)
	if err != nil {
		return h.mapper.Failure(err)
	}

	h.publisher.OrderCreated(ctx, envelope.Data)
	return h.mapper.Success(201, envelope.Data)
}

func (h *Handler) getOrder(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	customerID, err := pathID(req.PathParameters, "customer_id")
	if err != nil {
		return h.mapper.Failure(err)
	}
	orderID, err := pathID(req.PathParameters, "order_id")
	if err != nil {
		return h.mapper.Failure(err)
	}

	envelope, err := h.repo.Get(ctx, customerID, orderID)
	if err != nil {
		return h.mapper.Failure(err)
	}
	return h.mapper.Success(200, envelope.Data)
}

// customerOrdersResponse is one page of a customer's orders, newest first.
type customerOrdersResponse struct {
	Orders     []domain.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func (h *Handler) customerOrders(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	customerID, err := pathID(req.PathParameters, "customer_id")
	if err != nil {
		return h.mapper.Failure(err)
	}

	cursor := req.QueryStringParameters["cursor"]

	envelope, err := h.repo.ListByCustomer(ctx, customerID, cursor)
	if err != nil {
		return h.mapper.Failure(err)
	}
	return h.mapper.Success(200, customerOrdersResponse{
		Orders:     envelope.Data.Orders,
		NextCursor: envelope.Data.Cursor,
	})
}
