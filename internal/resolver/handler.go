package resolver

import (
	"context"

	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/pkg/decorator"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	ResolveSpecification struct {
		Parameter model.ParameterMetadata
		Values    model.RequestValues
	}

	ResolveSpecificationHandler = decorator.QueryHandler[ResolveSpecification, model.Specification]

	resolveSpecificationHandler struct {
		engine *Engine
		logger logger.Logger
	}
)

// NewResolveSpecificationHandler wraps the engine with logging, metrics and
// tracing.
func NewResolveSpecificationHandler(
	engine *Engine,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ResolveSpecificationHandler {
	return decorator.ApplyQueryDecorators[ResolveSpecification, model.Specification](
		resolveSpecificationHandler{engine: engine, logger: log},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h resolveSpecificationHandler) Execute(ctx context.Context, query ResolveSpecification) (model.Specification, error) {
	spec, err := h.engine.Resolve(query.Parameter, query.Values)
	if err != nil {
		return nil, err
	}

	log := h.logger.WithContext(ctx)
	log.Debug().
		Str("parameter", query.Parameter.Name()).
		Str("specification", model.Describe(spec)).
		Uint64("fingerprint", model.Fingerprint(spec)).
		Msg("specification resolved")

	return spec, nil
}
