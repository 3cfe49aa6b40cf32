package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/internal/domain/market"
	"botbi/pkg/errors"
)

func TestEquitiesCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewEquitiesCache()

	_, err := c.Get(ctx)
	assert.True(t, errors.Is(err, market.ErrCacheMiss))

	now := time.Now()
	payload := []market.PriceQuote{market.NewQuote("AAPL", 1, 0)}
	require.NoError(t, c.Set(ctx, market.CacheEntry{Payload: payload, WrittenAt: now}))

	payload[0].Symbol = "MUTATED"
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Payload[0].Symbol, "store must not alias caller slices")

	got.Payload[0].Symbol = "ALSO"
	again, _ := c.Get(ctx)
	assert.Equal(t, "AAPL", again.Payload[0].Symbol)

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, market.ErrCacheMiss))
}

func TestEquitiesCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewEquitiesCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, market.CacheEntry{Payload: []market.PriceQuote{market.NewQuote("AMD", 1, 0)}, WrittenAt: time.Now()})
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Get(ctx)
		}()
	}
	wg.Wait()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Payload, 1)
}
