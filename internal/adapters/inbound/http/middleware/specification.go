package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/resolver"
)

type specificationKey struct{}

// Specification resolves param against the request query string and stores
// the result for SpecificationFromContext. Failures answer 400 when the
// request is at fault and 500 otherwise.
func Specification(handler resolver.ResolveSpecificationHandler, param model.ParameterMetadata) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			spec, err := handler.Execute(r.Context(), resolver.ResolveSpecification{
				Parameter: param,
				Values:    model.MapValues(r.URL.Query()),
			})
			if err != nil {
				WriteResolutionError(w, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSpecification(r.Context(), spec)))
		})
	}
}

func ContextWithSpecification(ctx context.Context, spec model.Specification) context.Context {
	return context.WithValue(ctx, specificationKey{}, spec)
}

// SpecificationFromContext returns the specification resolved for the
// request. It falls back to the always-true specification.
func SpecificationFromContext(ctx context.Context) (model.Specification, bool) {
	spec, ok := ctx.Value(specificationKey{}).(model.Specification)
	if !ok || spec == nil {
		return model.True(), false
	}

	return spec, true
}

// WriteResolutionError maps resolution and query errors to a response.
func WriteResolutionError(w http.ResponseWriter, err error) {
	switch {
	case model.IsClientError(err):
		WriteError(w, http.StatusBadRequest, CodeInvalidQuery, err.Error())
	case errors.Is(err, model.ErrDatabaseQuery):
		WriteError(w, http.StatusServiceUnavailable, CodeUnavailable, "database unavailable")
	default:
		WriteError(w, http.StatusInternalServerError, CodeInternalError, err.Error())
	}
}
