package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCheckoutLock(t *testing.T) {
	ctx := context.Background()

	t.Run("SecondAcquireBlocked", func(t *testing.T) {
		lock := NewMemoryCheckoutLock()

		ok, err := lock.Acquire(ctx, "u1", time.Minute)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = lock.Acquire(ctx, "u1", time.Minute)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IndependentUsers", func(t *testing.T) {
		lock := NewMemoryCheckoutLock()

		ok, _ := lock.Acquire(ctx, "u1", time.Minute)
		assert.True(t, ok)
		ok, _ = lock.Acquire(ctx, "u2", time.Minute)
		assert.True(t, ok)
	})

	t.Run("ReleaseAllowsReacquire", func(t *testing.T) {
		lock := NewMemoryCheckoutLock()

		ok, _ := lock.Acquire(ctx, "u1", time.Minute)
		assert.True(t, ok)
		assert.NoError(t, lock.Release(ctx, "u1"))

		ok, _ = lock.Acquire(ctx, "u1", time.Minute)
		assert.True(t, ok)
	})

	t.Run("ExpiryAllowsReacquire", func(t *testing.T) {
		lock := NewMemoryCheckoutLock()

		ok, _ := lock.Acquire(ctx, "u1", 10*time.Millisecond)
		assert.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		// A wedged attempt expires with its TTL instead of blocking forever.
		ok, _ = lock.Acquire(ctx, "u1", time.Minute)
		assert.True(t, ok)
	})
}
