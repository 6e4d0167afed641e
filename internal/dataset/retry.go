package dataset

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingSource wraps a Source with retry/backoff behavior for transient read failures.
type retryingSource struct {
	inner       Source
	logger      *slog.Logger
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingSource wraps the given source with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingSource(inner Source, logger *slog.Logger, maxAttempts int, backoff time.Duration) Source {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingSource{
		inner:       inner,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingSource) Season() shots.Season {
	return r.inner.Season()
}

func (r *retryingSource) Load(ctx context.Context) (shots.Table, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		table, err := r.inner.Load(ctx)
		if err == nil {
			return table, nil
		}
		lastErr = err

		if permanent(err) || attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "dataset load retry", "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		delay := r.backoffFn(attempt)
		select {
		case <-ctx.Done():
			return shots.Table{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	return shots.Table{}, lastErr
}

// permanent reports errors another attempt cannot fix.
func permanent(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (r *retryingSource) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		args = append(args, slog.String(logging.FieldSeason, r.inner.Season().ID))
		logger.Warn(msg, args...)
	}
}
