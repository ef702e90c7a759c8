package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/architeacher/specargs/internal/ports"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		dbPool         repos.PoolOps
		logger         logger.Logger
		metricsClient  metrics.Client
		tracerProvider otelTrace.TracerProvider
	}

	repositories struct {
		specificationRepo ports.SpecificationRepository
	}

	applications struct {
		catalog  *catalog.Catalog
		resolver resolver.ResolveSpecificationHandler
	}

	dependencies struct {
		config *config.ServiceConfig

		infra infrastructureDep

		repos repositories

		apps applications

		cleanupFuncs map[string]func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

// initializeDependencies applies the default options in order. Resources
// acquired before a failing option are released.
func initializeDependencies(ctx context.Context) (*dependencies, error) {
	deps := &dependencies{
		cleanupFuncs: make(map[string]func(ctx context.Context) error),
	}

	for _, opt := range defaultOptions(ctx) {
		if err := opt(deps); err != nil {
			deps.release(ctx)

			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) release(ctx context.Context) {
	for _, cleanupFn := range d.cleanupFuncs {
		_ = cleanupFn(ctx)
	}
}
