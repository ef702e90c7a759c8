package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/architeacher/specargs/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

const (
	httpMethodKey     = "http.method"
	httpRouteKey      = "http.route"
	httpStatusCodeKey = "http.status_code"

	HTTPRequestTotal      = "http_requests_total"
	HTTPRequestDurationMs = "http_request_duration_ms"
	HTTPResponseSize      = "http_response_size_bytes"
)

// MetricDescriptors documents the keys recorded by MetricsMiddleware.
var MetricDescriptors = metrics.Descriptors{
	HTTPRequestTotal:      {Description: "HTTP requests served", Unit: "1"},
	HTTPRequestDurationMs: {Description: "Cumulated HTTP request duration", Unit: "ms"},
	HTTPResponseSize:      {Description: "Cumulated HTTP response size", Unit: "By"},
}

type MetricsMiddleware struct {
	metricsClient metrics.Client
}

func NewMetricsMiddleware(metricsClient metrics.Client) *MetricsMiddleware {
	return &MetricsMiddleware{
		metricsClient: metricsClient,
	}
}

func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := wrapResponse(w, r)

		next.ServeHTTP(ww, r)

		attrs := []attribute.KeyValue{
			attribute.String(httpMethodKey, r.Method),
			attribute.String(httpRouteKey, routePattern(r)),
			attribute.String(httpStatusCodeKey, strconv.Itoa(responseStatus(ww))),
		}

		ctx := r.Context()
		m.metricsClient.Inc(ctx, HTTPRequestTotal, int64(1), attrs...)
		m.metricsClient.Inc(ctx, HTTPRequestDurationMs, time.Since(start).Milliseconds(), attrs...)
		m.metricsClient.Inc(ctx, HTTPResponseSize, int64(ww.BytesWritten()), attrs...)
	})
}

// routePattern keeps metric cardinality bounded by the declared routes.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return "unmatched"
}
