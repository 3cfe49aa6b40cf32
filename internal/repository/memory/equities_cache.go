package memory

import (
	"context"
	"sync"

	"botbi/internal/domain/market"
)

var _ market.CacheStore = (*EquitiesCache)(nil)

// EquitiesCache keeps the equities entry in process memory. Lost on restart.
type EquitiesCache struct {
	mu    sync.RWMutex
	entry *market.CacheEntry
}

// NewEquitiesCache creates an empty in-memory cache
func NewEquitiesCache() *EquitiesCache {
	return &EquitiesCache{}
}

// Get returns a copy of the entry or market.ErrCacheMiss
func (c *EquitiesCache) Get(ctx context.Context) (*market.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.entry == nil {
		return nil, market.ErrCacheMiss
	}
	return clone(*c.entry), nil
}

// Set replaces the entry
func (c *EquitiesCache) Set(ctx context.Context, entry market.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = clone(entry)
	return nil
}

// Clear empties the slot
func (c *EquitiesCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = nil
	return nil
}

func clone(entry market.CacheEntry) *market.CacheEntry {
	payload := make([]market.PriceQuote, len(entry.Payload))
	copy(payload, entry.Payload)
	return &market.CacheEntry{Payload: payload, WrittenAt: entry.WrittenAt}
}
