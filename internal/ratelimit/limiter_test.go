package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulafin/finbot/internal/kv"
)

func TestIsAllowed_WithinLimit(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory())

	const limit = 5
	for i := 0; i < limit; i++ {
		ok, err := l.IsAllowed(ctx, 1, limit, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d must pass", i+1)
	}

	ok, err := l.IsAllowed(ctx, 1, limit, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "request limit+1 must be declined")
}

func TestIsAllowed_PerUserCounters(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory())

	ok, err := l.IsAllowed(ctx, 1, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.IsAllowed(ctx, 1, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// другой пользователь не задет
	ok, err = l.IsAllowed(ctx, 2, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAllowed_WindowReset(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory())

	ok, err := l.IsAllowed(ctx, 1, 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.IsAllowed(ctx, 1, 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(40 * time.Millisecond)

	ok, err = l.IsAllowed(ctx, 1, 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok, "fresh window must admit requests again")
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()
	l := New(kv.NewMemory())

	n, err := l.Remaining(ctx, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, n, "absent counter counts as zero")

	for i := 0; i < 3; i++ {
		_, err := l.IsAllowed(ctx, 1, 30, time.Minute)
		require.NoError(t, err)
	}

	n, err = l.Remaining(ctx, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	// Remaining не уходит в минус
	for i := 0; i < 40; i++ {
		_, err := l.IsAllowed(ctx, 1, 30, time.Minute)
		require.NoError(t, err)
	}
	n, err = l.Remaining(ctx, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
