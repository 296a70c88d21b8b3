package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryLimiter(start time.Time) (*MemoryRateLimiter, *time.Time) {
	now := start
	l := NewMemoryRateLimiter()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	l, now := newTestMemoryLimiter(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	rule := PerMinute(3)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "login:10.0.0.1", rule)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "login:10.0.0.1", rule)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "login:10.0.0.2", rule)
	require.NoError(t, err)
	assert.True(t, ok, "other keys are independent")

	*now = now.Add(20 * time.Second)
	ok, err = l.Allow(ctx, "login:10.0.0.1", rule)
	require.NoError(t, err)
	assert.True(t, ok, "one token refills every 20s")
}

func TestMemoryRateLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestMemoryLimiter(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	rule := PerMinute(1)

	ok, _ := l.Allow(ctx, "k", rule)
	require.True(t, ok)
	ok, _ = l.Allow(ctx, "k", rule)
	require.False(t, ok)

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k", rule)
	assert.True(t, ok)
}

func TestRule_Disabled(t *testing.T) {
	l := NewMemoryRateLimiter()
	for i := 0; i < 10; i++ {
		ok, err := l.Allow(context.Background(), "k", PerMinute(0))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
