// Package noop provides a metrics client that records nothing, used when
// metrics are disabled and in tests.
package noop

import (
	"context"
	"net/http"

	"github.com/architeacher/specargs/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
)

var _ metrics.Client = MetricsClient{}

type MetricsClient struct{}

func NewMetricsClient() MetricsClient {
	return MetricsClient{}
}

func (MetricsClient) Inc(context.Context, string, any, ...attribute.KeyValue) {}

// Handler answers 404 since nothing is collected.
func (MetricsClient) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (MetricsClient) Shutdown(context.Context) error {
	return nil
}
