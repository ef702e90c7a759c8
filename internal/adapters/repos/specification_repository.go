package repos

import (
	"context"
	"errors"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/pkg/circuitbreaker"
	"github.com/architeacher/specargs/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type (
	// PoolOps defines the database operations the repository needs so that
	// pgxmock can stand in for the pool.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Ping(ctx context.Context) error
	}

	// SpecificationRepository runs resolved specifications against an
	// entity's table.
	SpecificationRepository struct {
		pool       PoolOps
		scanner    Scanner
		translator *CriteriaTranslator
		breaker    *circuitbreaker.CircuitBreaker[uint64]
		logger     logger.Logger
	}

	// Page selects a 1-based page; a zero Size disables paging.
	Page struct {
		Number uint64
		Size   uint64
	}
)

func NewSpecificationRepository(
	pool PoolOps,
	scanner Scanner,
	translator *CriteriaTranslator,
	breaker *circuitbreaker.CircuitBreaker[uint64],
	log logger.Logger,
) *SpecificationRepository {
	return &SpecificationRepository{
		pool:       pool,
		scanner:    scanner,
		translator: translator,
		breaker:    breaker,
		logger:     log,
	}
}

// MaxOffset is the largest offset postgres accepts.
const MaxOffset = math.MaxInt64

// Offset is the number of rows before the page, capped at MaxOffset.
func (p Page) Offset() uint64 {
	if p.Number <= 1 || p.Size == 0 {
		return 0
	}

	if p.Number-1 > MaxOffset/p.Size {
		return MaxOffset
	}

	return (p.Number - 1) * p.Size
}

// Find scans the root rows matching spec, with the columns of fetched
// relations, into dst.
func (r *SpecificationRepository) Find(ctx context.Context, root *Entity, spec model.Specification, page Page, dst any) error {
	query, args, err := r.Preview(root, spec, page)
	if err != nil {
		return err
	}

	log := r.logger.WithContext(ctx)
	log.Debug().
		Str("table", root.Table).
		Str("sql", query).
		Msg("finding by specification")

	_, err = circuitbreaker.Execute(r.breaker, func() (uint64, error) {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
		}
		defer rows.Close()

		if err := r.scanner.ScanAll(dst, rows); err != nil {
			return 0, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
		}

		return 0, nil
	})

	return r.breakerError(err)
}

// Preview renders the select Find would run. Pages count root rows: when
// joins can repeat a root row, the page is cut from the distinct root keys
// first and the joined rows of those keys are selected.
func (r *SpecificationRepository) Preview(root *Entity, spec model.Specification, page Page) (string, []any, error) {
	key := root.Table + "." + root.Key
	builder := psql.Select(root.SelectColumns(root.Table, "")...).From(root.Table)

	builder, joins, err := r.translator.apply(builder, root, spec, true)
	if err != nil {
		return "", nil, err
	}

	builder = builder.OrderBy(key)

	switch {
	case page.Size == 0:
	case joins == 0:
		builder = builder.Limit(page.Size).Offset(page.Offset())
	default:
		keys, _, err := r.translator.apply(sq.Select(key).Distinct().From(root.Table), root, spec, false)
		if err != nil {
			return "", nil, err
		}

		keys = keys.OrderBy(key).Limit(page.Size).Offset(page.Offset())
		builder = builder.Where(sq.Expr(key+" IN (?)", keys))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return query, args, nil
}

// Count returns the number of distinct root rows matching spec.
func (r *SpecificationRepository) Count(ctx context.Context, root *Entity, spec model.Specification) (uint64, error) {
	builder := psql.Select(fmt.Sprintf("COUNT(DISTINCT %s.%s)", root.Table, root.Key)).From(root.Table)

	builder, err := r.translator.ApplyConditionsOnly(builder, root, spec)
	if err != nil {
		return 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	total, err := circuitbreaker.Execute(r.breaker, func() (uint64, error) {
		var count int64

		if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
			return 0, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
		}

		return uint64(count), nil
	})
	if err != nil {
		return 0, r.breakerError(err)
	}

	return total, nil
}

// Ping checks the database connection.
func (r *SpecificationRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return nil
}

func (r *SpecificationRepository) breakerError(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", model.ErrDatabaseQuery, err)
	}

	return err
}
