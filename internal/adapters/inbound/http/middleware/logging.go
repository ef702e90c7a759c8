package middleware

import (
	"net/http"
	"time"

	"github.com/architeacher/specargs/pkg/logger"
	"github.com/rs/zerolog"
)

type AccessLogger struct {
	logger             logger.Logger
	includeQueryParams bool
}

func NewAccessLogger(log logger.Logger, includeQueryParams bool) *AccessLogger {
	return &AccessLogger{
		logger:             log.WithComponent("http"),
		includeQueryParams: includeQueryParams,
	}
}

func (a *AccessLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ShouldSkipAccessLog(r.Context()) {
			next.ServeHTTP(w, r)

			return
		}

		start := time.Now()
		ww := wrapResponse(w, r)

		next.ServeHTTP(ww, r)

		status := responseStatus(ww)
		reqLogger := a.logger.WithContext(r.Context())

		var event *zerolog.Event

		switch {
		case status >= http.StatusInternalServerError:
			event = reqLogger.Error()
		case status >= http.StatusBadRequest:
			event = reqLogger.Warn()
		default:
			event = reqLogger.Info()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds())

		if a.includeQueryParams && r.URL.RawQuery != "" {
			event.Str("query", r.URL.RawQuery)
		}

		event.Send()
	})
}
