package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"
)

type skipAccessLogKey struct{}

// SkipAccessLog marks requests to the given probe paths so AccessLogger
// leaves them out. A trailing slash is ignored.
func SkipAccessLog(paths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(paths, strings.TrimSuffix(r.URL.Path, "/")) {
				r = r.WithContext(context.WithValue(r.Context(), skipAccessLogKey{}, true))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ShouldSkipAccessLog(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAccessLogKey{}).(bool)

	return skip
}
