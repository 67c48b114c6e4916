// Package observability publishes storage capacity consumption as metrics.
package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"orders-backend/application/ports"
)

// CapacityReporter receives the capacity cost of each storage operation.
type CapacityReporter interface {
	Report(ctx context.Context, operation string, capacity ports.Capacity)
}

// NoopReporter discards capacity reports. Used when metrics are disabled.
type NoopReporter struct{}

// Report implements CapacityReporter.
func (NoopReporter) Report(context.Context, string, ports.Capacity) {}

// CloudWatchAPI is the subset of the CloudWatch client the reporter uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchReporter publishes consumed capacity units to CloudWatch.
// Publishing is best effort: a failed put is logged and dropped, it never
// affects the request outcome.
type CloudWatchReporter struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
}

// NewCloudWatchReporter creates a reporter publishing under the given
// namespace.
func NewCloudWatchReporter(client CloudWatchAPI, namespace string, logger *zap.Logger) *CloudWatchReporter {
	return &CloudWatchReporter{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Report implements CapacityReporter.
func (r *CloudWatchReporter) Report(ctx context.Context, operation string, capacity ports.Capacity) {
	now := time.Now()
	dims := []cwtypes.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
	}

	datum := func(name string, value float64) cwtypes.MetricDatum {
		return cwtypes.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       cwtypes.StandardUnitCount,
			Timestamp:  aws.Time(now),
			Dimensions: dims,
		}
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []cwtypes.MetricDatum{
			datum("ConsumedCapacityTotal", capacity.Total),
			datum("ConsumedReadCapacity", capacity.RCU),
			datum("ConsumedWriteCapacity", capacity.WCU),
		},
	}

	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		r.logger.Warn("failed to publish capacity metrics",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
