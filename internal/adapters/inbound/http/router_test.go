package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	inboundhttp "github.com/architeacher/specargs/internal/adapters/inbound/http"
	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/architeacher/specargs/pkg/metrics/noop"
	"github.com/stretchr/testify/suite"
	otelNoop "go.opentelemetry.io/otel/trace/noop"
)

// previewRepository renders SQL with the real translator and never touches
// a database.
type previewRepository struct {
	repo *repos.SpecificationRepository
}

func (p previewRepository) Find(context.Context, *repos.Entity, model.Specification, repos.Page, any) error {
	return nil
}

func (p previewRepository) Count(context.Context, *repos.Entity, model.Specification) (uint64, error) {
	return 0, nil
}

func (p previewRepository) Preview(root *repos.Entity, spec model.Specification, page repos.Page) (string, []any, error) {
	return p.repo.Preview(root, spec, page)
}

func (p previewRepository) Ping(context.Context) error {
	return nil
}

type RouterTestSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupSuite() {
	cfg, err := config.Init()
	s.Require().NoError(err)

	log := logger.NewTestLogger()
	c := catalog.New()

	s.router = inboundhttp.NewRouter(inboundhttp.RouterConfig{
		Catalog: c,
		Resolver: resolver.NewResolveSpecificationHandler(
			resolver.NewEngine(nil, c.Definitions), log, noop.NewMetricsClient(), otelNoop.NewTracerProvider(),
		),
		Repository: previewRepository{
			repo: repos.NewSpecificationRepository(nil, nil, repos.NewCriteriaTranslator(&log), nil, log),
		},
		Logger:         log,
		MetricsClient:  noop.NewMetricsClient(),
		TracerProvider: otelNoop.NewTracerProvider(),
		Config:         cfg,
	})
}

func (s *RouterTestSuite) TestRoutesRegistered() {
	cases := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "GET /health",
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "GET /v1/customers",
			path:           "/v1/customers?name=al",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "GET /v1/orders/query",
			path:           "/v1/orders/query?status=paid",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "GET /v1/orders with an invalid date",
			path:           "/v1/orders?since=yesterday",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "GET /v1/invoices",
			path:           "/v1/invoices",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := httptest.NewRecorder()

			s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			s.Require().Equal(tc.expectedStatus, rec.Code)
			s.Require().NotEmpty(rec.Header().Get("X-Request-Id"))
		})
	}
}

func (s *RouterTestSuite) TestPreviewRendersResolvedSpecification() {
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/query?status=paid&customerEmail=jane@example.com", nil))

	var body struct {
		Data struct {
			Specification string `json:"specification"`
			SQL           string `json:"sql"`
			Args          []any  `json:"args"`
		} `json:"data"`
	}

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Equal(
		"and(and(equal[status](paid), equal[customer.email](jane@example.com)), "+
			"and(join:inner(customer), join_fetch:left(items)))",
		body.Data.Specification,
	)
	s.Require().Contains(body.Data.SQL, "JOIN customers AS customer ON customer.id = orders.customer_id")
	s.Require().Contains(body.Data.SQL, "LIMIT 20 OFFSET 0")
	s.Require().Equal([]any{"paid", "jane@example.com"}, body.Data.Args)
}
