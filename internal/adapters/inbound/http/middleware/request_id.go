package middleware

import (
	"context"
	"net/http"

	"github.com/architeacher/specargs/pkg/logger"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"

	maxRequestIDLength = 128
)

// RequestID tags the request with the caller's X-Request-Id, or a fresh
// UUID when the header is missing or unusable, and echoes it back. The ID
// lands where logger.WithContext finds it.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if !usableRequestID(requestID) {
				requestID = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), requestID)))
		})
	}
}

// usableRequestID keeps caller IDs to bounded printable ASCII, so they can
// be logged and echoed as is.
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(logger.ContextKeyRequestID).(string)

	return id
}
