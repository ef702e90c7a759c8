package http

import (
	"net/http"

	"github.com/architeacher/specargs/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/specargs/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/architeacher/specargs/internal/ports"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

type RouterConfig struct {
	Catalog        *catalog.Catalog
	Resolver       resolver.ResolveSpecificationHandler
	Repository     ports.SpecificationRepository
	Logger         logger.Logger
	MetricsClient  metrics.Client
	TracerProvider otelTrace.TracerProvider
	Config         *config.ServiceConfig
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	// Core middlewares - always applied
	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(chimiddleware.Timeout(cfg.Config.HTTPServer.WriteTimeout))
	router.Use(middleware.SecurityHeaders(cfg.Config.App.APIVersion))
	router.Use(middleware.CORS(cfg.Config.HTTPServer.AllowedOrigins))

	if cfg.Config.Telemetry.Traces.Enabled && cfg.TracerProvider != nil {
		router.Use(middleware.Tracer(cfg.TracerProvider))
		cfg.Logger.Info().Msg("distributed tracing enabled")
	}

	if cfg.Config.Telemetry.Metrics.Enabled && cfg.MetricsClient != nil {
		metricsMiddleware := middleware.NewMetricsMiddleware(cfg.MetricsClient)
		router.Use(metricsMiddleware.Middleware)
		cfg.Logger.Info().Msg("HTTP metrics collection enabled")
	}

	if cfg.Config.Logging.AccessLog.Enabled {
		if !cfg.Config.Logging.AccessLog.LogHealthChecks {
			router.Use(middleware.SkipAccessLog(healthPath, metricsPath))
		}

		accessLogger := middleware.NewAccessLogger(cfg.Logger, cfg.Config.Logging.AccessLog.IncludeQueryParams)
		router.Use(accessLogger.Middleware)
		cfg.Logger.Info().
			Bool("log_health_checks", cfg.Config.Logging.AccessLog.LogHealthChecks).
			Msg("structured access logging enabled")
	}

	search := handlers.NewSearchHandler(cfg.Repository, cfg.Config.Search, cfg.Config.App.APIVersion, cfg.Logger)

	router.Get(healthPath, search.Health)

	if cfg.MetricsClient != nil {
		router.Method(http.MethodGet, metricsPath, cfg.MetricsClient.Handler())
	}

	router.Route("/"+cfg.Config.App.APIVersion, func(r chi.Router) {
		for _, endpoint := range cfg.Catalog.Endpoints {
			r.With(middleware.Specification(cfg.Resolver, endpoint.Parameter)).
				Get("/"+endpoint.Name, search.List(endpoint))
			r.With(middleware.Specification(cfg.Resolver, endpoint.Parameter)).
				Get("/"+endpoint.Name+"/query", search.Preview(endpoint))
		}
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	})

	return router
}
