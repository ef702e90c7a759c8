package handlers

import (
	"net/http"

	"github.com/architeacher/specargs/internal/adapters/inbound/http/middleware"
	"go.opentelemetry.io/otel/trace"
)

type (
	// responseMeta contains response metadata for tracing and API versioning.
	responseMeta struct {
		RequestID   string `json:"requestId"`
		TraceID     string `json:"traceId,omitempty"`
		APIVersion  string `json:"apiVersion"`
		Fingerprint string `json:"fingerprint,omitempty"`
	}

	paginationData struct {
		Page       uint64 `json:"page"`
		Size       uint64 `json:"size"`
		TotalItems uint64 `json:"totalItems"`
		TotalPages uint64 `json:"totalPages"`
		HasNext    bool   `json:"hasNext"`
	}

	// EnvelopedResponse wraps response data with metadata and optional pagination.
	EnvelopedResponse struct {
		Data       any             `json:"data"`
		Meta       responseMeta    `json:"meta"`
		Pagination *paginationData `json:"pagination,omitempty"`
	}
)

func newMeta(r *http.Request, apiVersion string) responseMeta {
	return responseMeta{
		RequestID:  middleware.GetRequestID(r.Context()),
		TraceID:    traceID(r),
		APIVersion: apiVersion,
	}
}

// traceID prefers the server span started by the tracing middleware and
// falls back to the caller's traceparent header.
func traceID(r *http.Request) string {
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		return sc.TraceID().String()
	}

	// {version}-{trace-id}-{parent-id}-{trace-flags}
	traceparent := r.Header.Get("traceparent")
	if len(traceparent) < 55 {
		return ""
	}

	return traceparent[3:35]
}

func newPagination(page, size, total uint64) *paginationData {
	pages := uint64(1)
	if size > 0 && total > 0 {
		pages = (total + size - 1) / size
	}

	return &paginationData{
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}
