package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/pkg/errors"
)

func TestLimiter_BurstThenBlocks(t *testing.T) {
	l := NewLimiter("finnhub", 60)

	// burst is 10 for 60 req/min
	for i := 0; i < 10; i++ {
		require.True(t, l.Allow(), "request %d should fit the burst", i)
	}
	assert.False(t, l.Allow())
}

func TestLimiter_WaitRespectsDeadline(t *testing.T) {
	l := NewLimiter("finnhub", 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
	assert.Contains(t, err.Error(), "finnhub")
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter("off", 0)
	for i := 0; i < 1000; i++ {
		require.True(t, l.Allow())
	}
	assert.NoError(t, l.Wait(context.Background()))
	assert.Equal(t, "off", l.Name())
}
