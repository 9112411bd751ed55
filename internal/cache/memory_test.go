package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryCache()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("miss", func(t *testing.T) {
		c := NewMemoryCache()
		defer c.Close()

		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("expiry", func(t *testing.T) {
		c := NewMemoryCache()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("delete", func(t *testing.T) {
		c := NewMemoryCache()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, c.Delete(ctx, "k"))
		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("stored value is copied", func(t *testing.T) {
		c := NewMemoryCache()
		defer c.Close()

		value := []byte("v")
		require.NoError(t, c.Set(ctx, "k", value, 0))
		value[0] = 'x'
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})
}
