package decorator

import (
	"context"
	"strings"
	"time"

	"github.com/architeacher/specargs/pkg/metrics"
)

const (
	outcomeDuration = "duration"
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
)

type queryMetricsDecorator[Q Query, R Result] struct {
	base   QueryHandler[Q, R]
	client metrics.Client
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	if d.client == nil {
		return d.base.Execute(ctx, query)
	}

	name := queryName(query)
	start := time.Now()

	result, err := d.base.Execute(ctx, query)

	d.client.Inc(ctx, queryMetricKey(name, outcomeDuration), time.Since(start).Microseconds())

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}

	d.client.Inc(ctx, queryMetricKey(name, outcome), int64(1))

	return result, err
}

// queryMetricKey renders queries.<lowercased name>.<outcome>.
func queryMetricKey(name, outcome string) string {
	return "queries." + strings.ToLower(name) + "." + outcome
}

// QueryMetricDescriptors documents the counters recorded for the query type
// named action, as in QueryMetricDescriptors("ResolveSpecification").
func QueryMetricDescriptors(action string) metrics.Descriptors {
	return metrics.Descriptors{
		queryMetricKey(action, outcomeDuration): {Description: "Cumulated " + action + " duration", Unit: "us"},
		queryMetricKey(action, outcomeSuccess):  {Description: "Successful " + action + " executions", Unit: "1"},
		queryMetricKey(action, outcomeFailure):  {Description: "Failed " + action + " executions", Unit: "1"},
	}
}
