// internal/utils/retry.go
package utils

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// RetryConfig bounds a retried operation. BaseDelay doubles per attempt up
// to MaxDelay, with up to 25% random jitter on top.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:  3,
		BaseDelay: 50 * time.Millisecond,
		MaxDelay:  2 * time.Second,
	}
}

// Sleeper waits out a backoff delay. Injected so tests can count delays
// instead of sleeping through them.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs fn until it succeeds, returns a non-retriable error, or the
// attempt budget runs out. A nil sleeper uses real clock backoff.
func Retry(ctx context.Context, cfg RetryConfig, sleep Sleeper, retriable func(error) bool, fn func() error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if sleep == nil {
		sleep = sleepContext
	}

	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 {
			if serr := sleep(ctx, backoffDelay(cfg, attempt)); serr != nil {
				return serr
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if retriable != nil && !retriable(err) {
			return err
		}
	}
	return err
}

func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	d := cfg.BaseDelay << (attempt - 1)
	if cfg.MaxDelay > 0 && d > cfg.MaxDelay {
		d = cfg.MaxDelay
	}
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

// IsTransientDBError reports whether an error is worth retrying: postgres
// serialization failures (40001) and deadlocks (40P01). The gorm postgres
// driver rides on pgx, so conflicts surface as *pgconn.PgError.
func IsTransientDBError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}
	return false
}
