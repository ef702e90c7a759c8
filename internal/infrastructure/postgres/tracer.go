package postgres

import (
	"context"
	"time"

	"github.com/architeacher/specargs/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// QueryTracer logs queries running at least threshold at warn level. A
// zero threshold disables it.
type QueryTracer struct {
	log       logger.Logger
	threshold time.Duration
	now       func() time.Time
}

var _ pgx.QueryTracer = (*QueryTracer)(nil)

func NewQueryTracer(log logger.Logger, threshold time.Duration) *QueryTracer {
	return &QueryTracer{
		log:       log,
		threshold: threshold,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (t *QueryTracer) WithClock(now func() time.Time) *QueryTracer {
	t.now = now

	return t
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if t.threshold <= 0 {
		return ctx
	}

	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: t.now()})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := t.now().Sub(start.at)
	if elapsed < t.threshold {
		return
	}

	log := t.log.WithContext(ctx)
	event := log.Warn().
		Str("sql", start.sql).
		Dur("duration", elapsed).
		Int64("rows", data.CommandTag.RowsAffected())

	if data.Err != nil {
		event = event.Err(data.Err)
	}

	event.Msg("slow query")
}
