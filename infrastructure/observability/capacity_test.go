package observability

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orders-backend/application/ports"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestReportPublishesThreeDatums(t *testing.T) {
	fake := &fakeCloudWatch{}
	reporter := NewCloudWatchReporter(fake, "Orders/Storage", zap.NewNop())

	reporter.Report(context.Background(), "Create", ports.Capacity{Total: 3, RCU: 1, WCU: 2})

	require.Len(t, fake.inputs, 1)
	input := fake.inputs[0]
	assert.Equal(t, "Orders/Storage", aws.ToString(input.Namespace))
	require.Len(t, input.MetricData, 3)

	values := map[string]float64{}
	for _, d := range input.MetricData {
		values[aws.ToString(d.MetricName)] = aws.ToFloat64(d.Value)
		require.Len(t, d.Dimensions, 1)
		assert.Equal(t, "Operation", aws.ToString(d.Dimensions[0].Name))
		assert.Equal(t, "Create", aws.ToString(d.Dimensions[0].Value))
	}
	assert.Equal(t, 3.0, values["ConsumedCapacityTotal"])
	assert.Equal(t, 1.0, values["ConsumedReadCapacity"])
	assert.Equal(t, 2.0, values["ConsumedWriteCapacity"])
}

func TestReportSwallowsPublishFailure(t *testing.T) {
	fake := &fakeCloudWatch{err: assert.AnError}
	reporter := NewCloudWatchReporter(fake, "Orders/Storage", zap.NewNop())

	assert.NotPanics(t, func() {
		reporter.Report(context.Background(), "Get", ports.Capacity{Total: 0.5, RCU: 0.5})
	})
}

func TestCapacityAdd(t *testing.T) {
	total := ports.Capacity{}
	total = total.Add(ports.Capacity{Total: 1, WCU: 1})
	total = total.Add(ports.Capacity{Total: 2.5, RCU: 0.5, WCU: 2})

	assert.Equal(t, ports.Capacity{Total: 3.5, RCU: 0.5, WCU: 3}, total)
}
