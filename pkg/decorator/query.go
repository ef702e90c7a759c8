package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Query  any
	Result any

	QueryHandler[Q Query, R Result] interface {
		Execute(ctx context.Context, query Q) (R, error)
	}

	queryDecorator[Q Query, R Result] func(QueryHandler[Q, R]) QueryHandler[Q, R]
)

// ApplyQueryDecorators wraps handler so each execution runs inside a span,
// then is measured, then logged, in that order from the inside out.
func ApplyQueryDecorators[Q Query, R Result](
	handler QueryHandler[Q, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) QueryHandler[Q, R] {
	chain := []queryDecorator[Q, R]{
		func(base QueryHandler[Q, R]) QueryHandler[Q, R] {
			return queryTracingDecorator[Q, R]{base: base, tracerProvider: tracerProvider}
		},
		func(base QueryHandler[Q, R]) QueryHandler[Q, R] {
			return queryMetricsDecorator[Q, R]{base: base, client: metricsClient}
		},
		func(base QueryHandler[Q, R]) QueryHandler[Q, R] {
			return queryLoggingDecorator[Q, R]{base: base, logger: log}
		},
	}

	for _, decorate := range chain {
		handler = decorate(handler)
	}

	return handler
}

// queryName is the unqualified type name of query, e.g. ResolveSpecification.
func queryName(query any) string {
	name := fmt.Sprintf("%T", query)

	return name[strings.LastIndex(name, ".")+1:]
}
