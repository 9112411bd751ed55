package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingSleeper(count *int) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		*count++
		return nil
	}
}

func TestRetry(t *testing.T) {
	cfg := RetryConfig{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	transient := &pgconn.PgError{Code: "40001"}

	t.Run("succeeds first try without sleeping", func(t *testing.T) {
		slept := 0
		calls := 0
		err := Retry(context.Background(), cfg, countingSleeper(&slept), IsTransientDBError, func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, slept)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		slept := 0
		calls := 0
		err := Retry(context.Background(), cfg, countingSleeper(&slept), IsTransientDBError, func() error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 2, slept)
	})

	t.Run("gives up after attempt budget", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), cfg, countingSleeper(new(int)), IsTransientDBError, func() error {
			calls++
			return transient
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non retriable error stops immediately", func(t *testing.T) {
		calls := 0
		permanent := errors.New("constraint violation")
		err := Retry(context.Background(), cfg, countingSleeper(new(int)), IsTransientDBError, func() error {
			calls++
			return permanent
		})
		assert.Equal(t, permanent, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context aborts backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := Retry(ctx, cfg, nil, IsTransientDBError, func() error {
			calls++
			return transient
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestIsTransientDBError(t *testing.T) {
	assert.True(t, IsTransientDBError(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsTransientDBError(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, IsTransientDBError(fmt.Errorf("upsert listing: %w", &pgconn.PgError{Code: "40P01"})))
	assert.False(t, IsTransientDBError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsTransientDBError(errors.New("boom")))
	assert.False(t, IsTransientDBError(nil))
}
