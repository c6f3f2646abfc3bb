package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsPublisher records relay counters in CloudWatch. Metric failures are
// best-effort; callers log them and move on.
type MetricsPublisher struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetricsPublisher returns a MetricsPublisher bound to a namespace.
func NewMetricsPublisher(cwClient CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{
		CloudWatch: cwClient,
		Namespace:  namespace,
	}
}

// CountEvent records one stored event of the given type.
func (m *MetricsPublisher) CountEvent(ctx context.Context, eventType string) error {
	one := 1.0
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("EventsStored"),
				Value:      &one,
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("EventType"), Value: &eventType},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
