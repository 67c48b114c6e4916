// Package dynamodb implements the order repository over a single DynamoDB
// table using the composite key layout PK=CUST#{customerId},
// SK=ORDR#{orderId}.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"orders-backend/application/ports"
	"orders-backend/domain"
	"orders-backend/infrastructure/observability"
)

const (
	// entityType is the discriminator stored alongside each item so other
	// entity kinds can later share the same partition scheme.
	entityType = "Order"

	// pageSize is the fixed page size for customer listings.
	pageSize = 10

	resourceName = "Order"
)

// DynamoDBAPI is the subset of the DynamoDB client the repository uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *awsdynamodb.BatchWriteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.BatchWriteItemOutput, error)
}

// OrderRepository persists order aggregates in a single table.
type OrderRepository struct {
	client    DynamoDBAPI
	tableName string
	reporter  observability.CapacityReporter
	logger    *zap.Logger
	batch     batchConfig
}

// NewOrderRepository creates an OrderRepository over the given table.
func NewOrderRepository(client DynamoDBAPI, tableName string, reporter observability.CapacityReporter, logger *zap.Logger) *OrderRepository {
	if reporter == nil {
		reporter = observability.NoopReporter{}
	}
	return &OrderRepository{
		client:    client,
		tableName: tableName,
		reporter:  reporter,
		logger:    logger,
		batch:     defaultBatchConfig(),
	}
}

// Key construction is owned here; callers never see PK/SK.
func customerPK(customerID string) string {
	return "CUST#" + customerID
}

func orderSK(orderID string) string {
	return "ORDR#" + orderID
}

// orderItem is the stored shape: the order's fields flattened alongside the
// composite key and the TYPE discriminator.
type orderItem struct {
	PK         string       `dynamodbav:"PK"`
	SK         string       `dynamodbav:"SK"`
	Type       string       `dynamodbav:"TYPE"`
	OrderID    string       `dynamodbav:"orderId"`
	CustomerID string       `dynamodbav:"customerId"`
	Status     string       `dynamodbav:"status"`
	Items      []itemRecord `dynamodbav:"items"`
	Total      float64      `dynamodbav:"total"`
	CreatedAt  string       `dynamodbav:"createdAt"`
}

type itemRecord struct {
	Product  string  `dynamodbav:"product"`
	Quantity int     `dynamodbav:"quantity"`
	Price    float64 `dynamodbav:"price"`
}

func newOrderItem(order domain.Order) orderItem {
	items := make([]itemRecord, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, itemRecord{
			Product:  it.Product,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return orderItem{
		PK:         customerPK(order.CustomerID),
		SK:         orderSK(order.OrderID),
		Type:       entityType,
		OrderID:    order.OrderID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Items:      items,
		Total:      order.Total,
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
}

func (i orderItem) toDomain() (domain.Order, error) {
	createdAt, err := time.Parse(time.RFC3339, i.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse createdAt: %w", err)
	}
	items := make([]domain.OrderItem, 0, len(i.Items))
	for _, it := range i.Items {
		items = append(items, domain.OrderItem{
			Product:  it.Product,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return domain.Order{
		OrderID:    i.OrderID,
		CustomerID: i.CustomerID,
		Status:     i.Status,
		Items:      items,
		Total:      i.Total,
		CreatedAt:  createdAt,
	}, nil
}

// Create writes the order under its composite key. The write is conditional
// on the key not existing, so identifier collisions surface as
// resource_exists instead of silently overwriting.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (ports.Envelope[domain.Order], error) {
	var envelope ports.Envelope[domain.Order]

	av, err := attributevalue.MarshalMap(newOrderItem(order))
	if err != nil {
		return envelope, apperror("marshal order", err)
	}

	out, err := r.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:              aws.String(r.tableName),
		Item:                   av,
		ConditionExpression:    aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return envelope, r.classify(err, order.OrderID)
	}

	envelope.Data = order
	envelope.Capacity = capacityOf(out.ConsumedCapacity)
	r.reporter.Report(ctx, "create", envelope.Capacity)

	r.logger.Debug("order created",
		zap.String("order_id", order.OrderID),
		zap.String("customer_id", order.CustomerID),
		zap.Float64("wcu", envelope.Capacity.WCU),
	)
	return envelope, nil
}

// Get performs an exact key lookup. The capacity report is populated even on
// the not-found path, since the backend charges for the read either way.
func (r *OrderRepository) Get(ctx context.Context, customerID, orderID string) (ports.Envelope[domain.Order], error) {
	var envelope ports.Envelope[domain.Order]

	out, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: customerPK(customerID)},
			"SK": &types.AttributeValueMemberS{Value: orderSK(orderID)},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return envelope, r.classify(err, orderID)
	}

	envelope.Capacity = capacityOf(out.ConsumedCapacity)
	r.reporter.Report(ctx, "get", envelope.Capacity)

	if len(out.Item) == 0 {
		return envelope, apperrNotFound(orderID)
	}

	var item orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return envelope, apperror("unmarshal order", err)
	}
	order, err := item.toDomain()
	if err != nil {
		return envelope, apperror("decode order", err)
	}

	envelope.Data = order
	return envelope, nil
}

// ListByCustomer scans the customer's partition descending by sort key.
// Because orderId is time-sortable, descending key order is newest-first
// creation order without any secondary index.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID, cursor string) (ports.Envelope[ports.OrderPage], error) {
	var envelope ports.Envelope[ports.OrderPage]

	keyCond := expression.KeyAnd(
		expression.Key("PK").Equal(expression.Value(customerPK(customerID))),
		expression.Key("SK").BeginsWith("ORDR#"),
	)
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return envelope, apperror("build query expression", err)
	}

	input := &awsdynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(pageSize),
		ReturnConsumedCapacity:    types.ReturnConsumedCapacityTotal,
	}

	if cursor != "" {
		startKey, err := decodeCursor(cursor, customerPK(customerID))
		if err != nil {
			return envelope, err
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return envelope, r.classify(err, customerID)
	}

	envelope.Capacity = capacityOf(out.ConsumedCapacity)
	r.reporter.Report(ctx, "list", envelope.Capacity)

	orders := make([]domain.Order, 0, len(out.Items))
	for _, raw := range out.Items {
		var item orderItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return envelope, apperror("unmarshal order", err)
		}
		order, err := item.toDomain()
		if err != nil {
			return envelope, apperror("decode order", err)
		}
		orders = append(orders, order)
	}

	envelope.Data = ports.OrderPage{
		Orders: orders,
		Cursor: encodeCursor(out.LastEvaluatedKey),
	}
	return envelope, nil
}

func capacityOf(cc *types.ConsumedCapacity) ports.Capacity {
	if cc == nil {
		return ports.Capacity{}
	}
	return ports.Capacity{
		Total: aws.ToFloat64(cc.CapacityUnits),
		RCU:   aws.ToFloat64(cc.ReadCapacityUnits),
		WCU:   aws.ToFloat64(cc.WriteCapacityUnits),
	}
}
