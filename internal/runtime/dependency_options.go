package runtime

import (
	"context"
	"fmt"
	"net/http"

	inboundhttp "github.com/architeacher/specargs/internal/adapters/inbound/http"
	"github.com/architeacher/specargs/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/architeacher/specargs/internal/infrastructure"
	infraPostgres "github.com/architeacher/specargs/internal/infrastructure/postgres"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/architeacher/specargs/pkg/circuitbreaker"
	"github.com/architeacher/specargs/pkg/decorator"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics"
	"github.com/architeacher/specargs/pkg/metrics/noop"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithTracing(ctx),
		WithMetrics(ctx),
		WithDatabase(ctx),
		WithSpecificationRepository(),
		WithApplication(),
		WithHTTPServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		tp, shutdown, err := infrastructure.NewTracerProvider(ctx, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.cleanupFuncs["tracer"] = shutdown

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Metrics.Enabled {
			d.infra.metricsClient = noop.NewMetricsClient()

			return nil
		}

		provider, reader, err := infrastructure.NewMeterProvider(ctx, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		descriptors := middleware.MetricDescriptors.Merge(decorator.QueryMetricDescriptors("ResolveSpecification"))
		client := metrics.NewOTelClient(provider, descriptors, metrics.WithSnapshotReader(reader))

		d.infra.metricsClient = client
		d.cleanupFuncs["metrics"] = client.Shutdown

		return nil
	}
}

func WithDatabase(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		pool, err := infraPostgres.NewPool(ctx, d.config.Database, d.infra.logger.WithComponent("postgres"))
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.cleanupFuncs["database"] = func(context.Context) error {
			pool.Close()

			return nil
		}

		return nil
	}
}

func WithSpecificationRepository() DependencyOption {
	return func(d *dependencies) error {
		log := d.infra.logger.WithComponent("repository")
		cb := d.config.CircuitBreaker

		breaker := circuitbreaker.New[uint64](circuitbreaker.Config{
			Name:             "postgres",
			Enabled:          cb.Enabled,
			MaxRequests:      cb.MaxRequests,
			Interval:         cb.Interval,
			Timeout:          cb.Timeout,
			FailureThreshold: cb.FailureThreshold,
			OnStateChange: func(name, from, to string) {
				log.Warn().
					Str("breaker", name).
					Str("from", from).
					Str("to", to).
					Msg("circuit breaker state changed")
			},
		})

		d.repos.specificationRepo = repos.NewSpecificationRepository(
			d.infra.dbPool,
			repos.NewPgxScanner(),
			repos.NewCriteriaTranslator(&log),
			breaker,
			log,
		)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		c := catalog.New()

		d.apps.catalog = c
		d.apps.resolver = resolver.NewResolveSpecificationHandler(
			resolver.NewEngine(nil, c.Definitions),
			d.infra.logger.WithComponent("resolver"),
			d.infra.metricsClient,
			d.infra.tracerProvider,
		)

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			Catalog:        d.apps.catalog,
			Resolver:       d.apps.resolver,
			Repository:     d.repos.specificationRepo,
			Logger:         d.infra.logger,
			MetricsClient:  d.infra.metricsClient,
			TracerProvider: d.infra.tracerProvider,
			Config:         d.config,
		})

		d.infra.httpServer = &http.Server{
			Addr:         d.config.HTTPServer.Address(),
			Handler:      router,
			ReadTimeout:  d.config.HTTPServer.ReadTimeout,
			WriteTimeout: d.config.HTTPServer.WriteTimeout,
			IdleTimeout:  d.config.HTTPServer.IdleTimeout,
		}

		return nil
	}
}
