package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"orders-backend/application/ports"
	"orders-backend/domain"
	apperrors "orders-backend/pkg/errors"
)

// batchConfig bounds chunked batch writes and their unprocessed-item
// retries.
type batchConfig struct {
	maxChunkSize  int
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor int
}

func defaultBatchConfig() batchConfig {
	return batchConfig{
		maxChunkSize:  25, // DynamoDB batch limit
		maxRetries:    3,
		initialDelay:  100 * time.Millisecond,
		backoffFactor: 2,
	}
}

// BatchCreate writes orders in chunks no larger than the backend's batch
// limit. A batch call can apply some items and return the rest as
// unprocessed; exactly that subset is retried with backoff until applied or
// the retry budget runs out.
func (r *OrderRepository) BatchCreate(ctx context.Context, orders []domain.Order) (ports.Envelope[int], error) {
	var envelope ports.Envelope[int]

	requests := make([]types.WriteRequest, 0, len(orders))
	for _, order := range orders {
		av, err := attributevalue.MarshalMap(newOrderItem(order))
		if err != nil {
			return envelope, apperror("marshal order", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	written := 0
	for start := 0; start < len(requests); start += r.batch.maxChunkSize {
		end := start + r.batch.maxChunkSize
		if end > len(requests) {
			end = len(requests)
		}
		chunk := requests[start:end]

		capacity, err := r.writeChunkWithRetry(ctx, chunk)
		envelope.Capacity = envelope.Capacity.Add(capacity)
		if err != nil {
			return envelope, err
		}
		written += len(chunk)
	}

	envelope.Data = written
	r.reporter.Report(ctx, "batch_create", envelope.Capacity)
	r.logger.Debug("batch create applied",
		zap.Int("orders", written),
		zap.Float64("wcu", envelope.Capacity.WCU),
	)
	return envelope, nil
}

// writeChunkWithRetry issues one batch write and retries the unprocessed
// subset until it drains or the retry budget is exhausted.
func (r *OrderRepository) writeChunkWithRetry(ctx context.Context, chunk []types.WriteRequest) (ports.Capacity, error) {
	var capacity ports.Capacity

	pending := chunk
	delay := r.batch.initialDelay

	for attempt := 0; ; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &awsdynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.tableName: pending,
			},
			ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
		})
		if err != nil {
			return capacity, r.classify(err, "")
		}

		for _, cc := range out.ConsumedCapacity {
			capacity = capacity.Add(capacityOf(&cc))
		}

		unprocessed := out.UnprocessedItems[r.tableName]
		if len(unprocessed) == 0 {
			return capacity, nil
		}

		if attempt >= r.batch.maxRetries {
			r.logger.Error("batch write retry budget exhausted",
				zap.Int("unprocessed", len(unprocessed)),
				zap.Int("attempts", attempt+1),
			)
			return capacity, apperrors.NewInternalFailure("batch write left unprocessed items after retries", nil)
		}

		r.logger.Warn("batch write returned unprocessed items, retrying",
			zap.Int("unprocessed", len(unprocessed)),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return capacity, apperror("batch write interrupted", ctx.Err())
		case <-time.After(delay):
		}
		delay *= time.Duration(r.batch.backoffFactor)
		pending = unprocessed
	}
}
