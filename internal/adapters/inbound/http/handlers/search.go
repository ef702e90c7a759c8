package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/architeacher/specargs/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/ports"
	"github.com/architeacher/specargs/pkg/logger"
)

const (
	pageParam = "page"
	sizeParam = "size"

	totalCountHeader = "X-Total-Count"
)

// SearchHandler serves the search endpoints of the catalog. The
// specification of a request is resolved by middleware.Specification before
// the handler runs.
type SearchHandler struct {
	repo       ports.SpecificationRepository
	search     config.Search
	apiVersion string
	logger     logger.Logger
}

func NewSearchHandler(repo ports.SpecificationRepository, search config.Search, apiVersion string, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		repo:       repo,
		search:     search,
		apiVersion: apiVersion,
		logger:     log.WithComponent("search"),
	}
}

// List answers one page of the endpoint's rows matching the request
// specification.
func (h *SearchHandler) List(endpoint catalog.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.page(r)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.CodeInvalidQuery, err.Error())

			return
		}

		spec, _ := middleware.SpecificationFromContext(r.Context())

		total, err := h.repo.Count(r.Context(), endpoint.Entity, spec)
		if err != nil {
			h.fail(w, r, endpoint, err)

			return
		}

		rows := make([]map[string]any, 0)

		if total > 0 && page.Offset() < total {
			if err := h.repo.Find(r.Context(), endpoint.Entity, spec, page, &rows); err != nil {
				h.fail(w, r, endpoint, err)

				return
			}
		}

		meta := newMeta(r, h.apiVersion)
		meta.Fingerprint = fingerprint(spec)

		w.Header().Set(totalCountHeader, strconv.FormatUint(total, 10))
		middleware.WriteJSON(w, http.StatusOK, EnvelopedResponse{
			Data:       rows,
			Meta:       meta,
			Pagination: newPagination(page.Number, page.Size, total),
		})
	}
}

type previewData struct {
	Specification string `json:"specification"`
	Fingerprint   string `json:"fingerprint"`
	SQL           string `json:"sql"`
	Args          []any  `json:"args"`
}

// Preview answers the select List would run for the same request.
func (h *SearchHandler) Preview(endpoint catalog.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.page(r)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.CodeInvalidQuery, err.Error())

			return
		}

		spec, _ := middleware.SpecificationFromContext(r.Context())

		sql, args, err := h.repo.Preview(endpoint.Entity, spec, page)
		if err != nil {
			h.fail(w, r, endpoint, err)

			return
		}

		if args == nil {
			args = []any{}
		}

		middleware.WriteJSON(w, http.StatusOK, EnvelopedResponse{
			Data: previewData{
				Specification: model.Describe(spec),
				Fingerprint:   fingerprint(spec),
				SQL:           sql,
				Args:          args,
			},
			Meta: newMeta(r, h.apiVersion),
		})
	}
}

// Health reports whether the database answers.
func (h *SearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		log := h.logger.WithContext(r.Context())
		log.Error().Err(err).Msg("health check failed")

		middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})

		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// page reads the page query parameters. Sizes above the configured maximum
// are capped.
func (h *SearchHandler) page(r *http.Request) (repos.Page, error) {
	page := repos.Page{Number: 1, Size: h.search.DefaultPageSize}

	query := r.URL.Query()

	if raw := query.Get(pageParam); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return page, fmt.Errorf("%s must be a positive integer", pageParam)
		}

		page.Number = n
	}

	if raw := query.Get(sizeParam); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return page, fmt.Errorf("%s must be a positive integer", sizeParam)
		}

		page.Size = n
	}

	if h.search.MaxPageSize > 0 && page.Size > h.search.MaxPageSize {
		page.Size = h.search.MaxPageSize
	}

	if page.Size > 0 && page.Number-1 > repos.MaxOffset/page.Size {
		return page, fmt.Errorf("%s is out of range", pageParam)
	}

	return page, nil
}

func (h *SearchHandler) fail(w http.ResponseWriter, r *http.Request, endpoint catalog.Endpoint, err error) {
	log := h.logger.WithContext(r.Context())
	log.Error().
		Err(err).
		Str("endpoint", endpoint.Name).
		Msg("search failed")

	middleware.WriteResolutionError(w, err)
}

func fingerprint(spec model.Specification) string {
	return fmt.Sprintf("%016x", model.Fingerprint(spec))
}
