package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitCountsPages(t *testing.T) {
	l := New(0, 0, 0, 0)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, l.Wait(ctx))
	}
	assert.Equal(t, 3, l.Pages())
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	l := New(time.Hour, time.Hour, 0, 0)
	// Prime lastAction so the second wait actually has to sleep.
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBlockPauseEveryN(t *testing.T) {
	l := New(0, 0, 2, 30*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx)) // second wait triggers the pause
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
