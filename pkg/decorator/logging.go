package decorator

import (
	"context"
	"errors"
	"time"

	"github.com/architeacher/specargs/pkg/logger"
)

type queryLoggingDecorator[Q Query, R Result] struct {
	base   QueryHandler[Q, R]
	logger logger.Logger
}

// ClientError is implemented by errors that the caller caused. They are
// logged as warnings instead of errors.
type ClientError interface {
	ClientError() bool
}

func (d queryLoggingDecorator[Q, R]) Execute(ctx context.Context, query Q) (result R, err error) {
	start := time.Now()
	log := d.logger.WithContext(ctx).With().
		Str("query", queryName(query)).
		Logger()

	log.Debug().Msg("executing query")

	defer func() {
		elapsed := time.Since(start)

		if err == nil {
			log.Debug().Dur("duration", elapsed).Msg("query executed successfully")

			return
		}

		event := log.Error()
		if isClientError(err) {
			event = log.Warn()
		}

		event.Err(err).Dur("duration", elapsed).Msg("failed to execute query")
	}()

	return d.base.Execute(ctx, query)
}

func isClientError(err error) bool {
	var ce ClientError

	return errors.As(err, &ce) && ce.ClientError()
}
