package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/architeacher/specargs/pkg/logger"
)

// Recovery turns a handler panic into a 500 JSON error. http.ErrAbortHandler
// is re-raised so net/http can abort the connection.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverRequest(log, w, r)

			next.ServeHTTP(w, r)
		})
	}
}

func recoverRequest(log logger.Logger, w http.ResponseWriter, r *http.Request) {
	rvr := recover()
	if rvr == nil {
		return
	}

	if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
		panic(rvr)
	}

	reqLogger := log.WithContext(r.Context())
	reqLogger.Error().
		Interface("panic", rvr).
		Bytes("stack", debug.Stack()).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("panic recovered")

	WriteError(w, http.StatusInternalServerError, CodeInternalError, "internal server error")
}
