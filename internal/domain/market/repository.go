package market

import (
	"context"

	"botbi/pkg/errors"
)

// ErrCacheMiss is returned by CacheStore.Get when the slot is empty
var ErrCacheMiss = errors.Wrap(errors.ErrNotFound, "equities cache empty")

// CacheStore holds one equities snapshot with the time it was written.
// Set replaces the slot wholesale. A Get that fails to decode returns errors.ErrCacheCorrupt.
type CacheStore interface {
	Get(ctx context.Context) (*CacheEntry, error)
	Set(ctx context.Context, entry CacheEntry) error
	Clear(ctx context.Context) error
}

// CryptoFetcher lists the top cryptocurrencies by market cap
type CryptoFetcher interface {
	FetchTopCrypto(ctx context.Context, limit int) ([]PriceQuote, error)
}

// EquityFetcher quotes a single stock symbol
type EquityFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (PriceQuote, error)
}
