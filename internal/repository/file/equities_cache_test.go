package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/internal/domain/market"
	"botbi/pkg/errors"
)

func TestEquitiesCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "stocks_cache.json")
	c := NewEquitiesCache(path)

	_, err := c.Get(ctx)
	assert.True(t, errors.Is(err, market.ErrCacheMiss))

	written := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	require.NoError(t, c.Set(ctx, market.CacheEntry{
		Payload:   []market.PriceQuote{market.NewQuote("TSLA", 175.4, -1.2)},
		WrittenAt: written,
	}))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, written.Equal(got.WrittenAt))
	require.Len(t, got.Payload, 1)
	assert.Equal(t, "-1.2", got.Payload[0].ChangePercent.String())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, c.Clear(ctx))
	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx)
	assert.True(t, errors.Is(err, market.ErrCacheMiss))
}

func TestEquitiesCache_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stocks_cache.json")
	c := NewEquitiesCache(path)

	for name, body := range map[string]string{
		"garbage":      "{{{",
		"no timestamp": `{"payload":[{"symbol":"AAPL","price":"1","change_percent":"0"}]}`,
	} {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := c.Get(ctx)
		assert.True(t, errors.Is(err, errors.ErrCacheCorrupt), name)
	}
}
