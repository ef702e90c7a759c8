package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/architeacher/specargs/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/specargs/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/stretchr/testify/suite"
)

type mockRepository struct {
	findFn    func(ctx context.Context, root *repos.Entity, spec model.Specification, page repos.Page, dst any) error
	countFn   func(ctx context.Context, root *repos.Entity, spec model.Specification) (uint64, error)
	previewFn func(root *repos.Entity, spec model.Specification, page repos.Page) (string, []any, error)
	pingFn    func(ctx context.Context) error

	findCalls int
	lastPage  repos.Page
}

func (m *mockRepository) Find(ctx context.Context, root *repos.Entity, spec model.Specification, page repos.Page, dst any) error {
	m.findCalls++
	m.lastPage = page

	if m.findFn != nil {
		return m.findFn(ctx, root, spec, page, dst)
	}

	return nil
}

func (m *mockRepository) Count(ctx context.Context, root *repos.Entity, spec model.Specification) (uint64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, root, spec)
	}

	return 0, nil
}

func (m *mockRepository) Preview(root *repos.Entity, spec model.Specification, page repos.Page) (string, []any, error) {
	m.lastPage = page

	if m.previewFn != nil {
		return m.previewFn(root, spec, page)
	}

	return "", nil, nil
}

func (m *mockRepository) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}

	return nil
}

type listResponse struct {
	Data []map[string]any `json:"data"`
	Meta struct {
		RequestID   string `json:"requestId"`
		APIVersion  string `json:"apiVersion"`
		Fingerprint string `json:"fingerprint"`
	} `json:"meta"`
	Pagination struct {
		Page       uint64 `json:"page"`
		Size       uint64 `json:"size"`
		TotalItems uint64 `json:"totalItems"`
		TotalPages uint64 `json:"totalPages"`
		HasNext    bool   `json:"hasNext"`
	} `json:"pagination"`
}

type SearchHandlerTestSuite struct {
	suite.Suite
	endpoint catalog.Endpoint
	search   config.Search
}

func TestSearchHandlerTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SearchHandlerTestSuite))
}

func (s *SearchHandlerTestSuite) SetupSuite() {
	endpoint, ok := catalog.New().Endpoint("customers")
	s.Require().True(ok)

	s.endpoint = endpoint
	s.search = config.Search{DefaultPageSize: 20, MaxPageSize: 50}
}

func (s *SearchHandlerTestSuite) serve(h http.Handler, target string, spec model.Specification) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if spec != nil {
		req = req.WithContext(middleware.ContextWithSpecification(req.Context(), spec))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func (s *SearchHandlerTestSuite) TestList() {
	spec := model.Equal([]model.Path{{Attribute: "status"}}, "active")

	repo := &mockRepository{
		countFn: func(_ context.Context, root *repos.Entity, got model.Specification) (uint64, error) {
			s.Require().Same(s.endpoint.Entity, root)
			s.Require().Equal(model.Describe(spec), model.Describe(got))

			return 45, nil
		},
		findFn: func(_ context.Context, _ *repos.Entity, _ model.Specification, _ repos.Page, dst any) error {
			rows, ok := dst.(*[]map[string]any)
			s.Require().True(ok)

			*rows = append(*rows, map[string]any{"id": float64(1), "status": "active"})

			return nil
		},
	}

	handler := handlers.NewSearchHandler(repo, s.search, "v1", logger.NewTestLogger())

	rec := s.serve(handler.List(s.endpoint), "/v1/customers?status=active&page=2&size=20", spec)

	var body listResponse

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Equal("45", rec.Header().Get("X-Total-Count"))
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body.Data, 1)
	s.Require().Equal("active", body.Data[0]["status"])
	s.Require().Equal("v1", body.Meta.APIVersion)
	s.Require().Len(body.Meta.Fingerprint, 16)
	s.Require().Equal(uint64(2), body.Pagination.Page)
	s.Require().Equal(uint64(3), body.Pagination.TotalPages)
	s.Require().True(body.Pagination.HasNext)
	s.Require().Equal(repos.Page{Number: 2, Size: 20}, repo.lastPage)
}

func (s *SearchHandlerTestSuite) TestList_EmptyResultSkipsFind() {
	repo := &mockRepository{}

	handler := handlers.NewSearchHandler(repo, s.search, "v1", logger.NewTestLogger())

	rec := s.serve(handler.List(s.endpoint), "/v1/customers", nil)

	var body listResponse

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Empty(body.Data)
	s.Require().NotNil(body.Data)
	s.Require().Zero(repo.findCalls)
	s.Require().False(body.Pagination.HasNext)
}

func (s *SearchHandlerTestSuite) TestList_Paging() {
	cases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedPage   repos.Page
	}{
		{
			name:           "defaults",
			expectedStatus: http.StatusOK,
			expectedPage:   repos.Page{Number: 1, Size: 20},
		},
		{
			name:           "size is capped",
			query:          "?size=500",
			expectedStatus: http.StatusOK,
			expectedPage:   repos.Page{Number: 1, Size: 50},
		},
		{
			name:           "page zero",
			query:          "?page=0",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "size not a number",
			query:          "?size=ten",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "far page",
			query:          "?page=1000&size=50",
			expectedStatus: http.StatusOK,
			expectedPage:   repos.Page{Number: 1000, Size: 50},
		},
		{
			name:           "offset overflows",
			query:          "?page=18446744073709551615&size=50",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			repo := &mockRepository{
				countFn: func(context.Context, *repos.Entity, model.Specification) (uint64, error) {
					return 1, nil
				},
			}

			handler := handlers.NewSearchHandler(repo, s.search, "v1", logger.NewTestLogger())

			rec := s.serve(handler.List(s.endpoint), "/v1/customers"+tc.query, nil)

			s.Require().Equal(tc.expectedStatus, rec.Code)

			if tc.expectedStatus == http.StatusOK {
				s.Require().Equal(tc.expectedPage, repo.lastPage)
			}
		})
	}
}

func (s *SearchHandlerTestSuite) TestList_RepositoryErrors() {
	cases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "database unavailable",
			err:            model.ErrDatabaseQuery,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "unknown attribute",
			err:            model.ErrUnknownAttribute,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			repo := &mockRepository{
				countFn: func(context.Context, *repos.Entity, model.Specification) (uint64, error) {
					return 0, tc.err
				},
			}

			handler := handlers.NewSearchHandler(repo, s.search, "v1", logger.NewTestLogger())

			rec := s.serve(handler.List(s.endpoint), "/v1/customers", nil)

			s.Require().Equal(tc.expectedStatus, rec.Code)
		})
	}
}

func (s *SearchHandlerTestSuite) TestPreview() {
	spec := model.Equal([]model.Path{{Attribute: "status"}}, "active")

	repo := &mockRepository{
		previewFn: func(*repos.Entity, model.Specification, repos.Page) (string, []any, error) {
			return "SELECT customers.id FROM customers WHERE customers.status = $1", []any{"active"}, nil
		},
	}

	handler := handlers.NewSearchHandler(repo, s.search, "v1", logger.NewTestLogger())

	rec := s.serve(handler.Preview(s.endpoint), "/v1/customers/query?status=active", spec)

	var body struct {
		Data struct {
			Specification string `json:"specification"`
			Fingerprint   string `json:"fingerprint"`
			SQL           string `json:"sql"`
			Args          []any  `json:"args"`
		} `json:"data"`
	}

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Equal("equal[status](active)", body.Data.Specification)
	s.Require().Len(body.Data.Fingerprint, 16)
	s.Require().Contains(body.Data.SQL, "customers.status = $1")
	s.Require().Equal([]any{"active"}, body.Data.Args)
}

func (s *SearchHandlerTestSuite) TestHealth() {
	cases := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "database up",
			expectedStatus: http.StatusOK,
			expectedBody:   "ok",
		},
		{
			name:           "database down",
			pingErr:        errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "down",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			repo := &mockRepository{
				pingFn: func(context.Context) error { return tc.pingErr },
			}

			handler := handlers.NewSearchHandler(repo, s.search, "v1", logger.NewTestLogger())

			rec := s.serve(http.HandlerFunc(handler.Health), "/health", nil)

			var body map[string]string

			s.Require().Equal(tc.expectedStatus, rec.Code)
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Require().Equal(tc.expectedBody, body["status"])
		})
	}
}
