// Package logger wraps zerolog with the fields every entry of the service
// carries: the component, the request ID and the active trace.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	JSONLoggingFormat    = "json"
	ConsoleLoggingFormat = "console"

	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	ContextKeyRequestID contextKey = "requestID"
)

type Logger struct {
	zerolog.Logger
}

func New(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter builds a logger writing to w. Anything but the json format
// is rendered for terminals. The level only applies to this logger and its
// children.
func NewWithWriter(level, format string, w io.Writer) Logger {
	out := w
	if format != JSONLoggingFormat {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return Logger{
		Logger: zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger(),
	}
}

// ParseLevel maps a configured level name to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn, LogLevelWarning:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext returns a logger carrying the request ID and the trace of ctx.
func (l Logger) WithContext(ctx context.Context) zerolog.Logger {
	fields := l.With()

	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok && requestID != "" {
		fields = fields.Str("request_id", requestID)
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = fields.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}

	return fields.Logger()
}

// WithComponent returns a child logger tagging every entry with component.
func (l Logger) WithComponent(component string) Logger {
	return Logger{Logger: l.With().Str("component", component).Logger()}
}

// ContextWithRequestID stores the request ID picked up by WithContext.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
