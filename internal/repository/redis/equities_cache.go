package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"botbi/internal/domain/market"
	"botbi/pkg/errors"
)

// DefaultEquitiesKey holds the single equities cache slot
const DefaultEquitiesKey = "botbi:market:equities"

var _ market.CacheStore = (*EquitiesCache)(nil)

// EquitiesCache implements market.CacheStore on one Redis key.
// The key has no TTL: expired entries still serve the stale tier.
type EquitiesCache struct {
	client *redis.Client
	key    string
}

// NewEquitiesCache creates a Redis-backed equities cache
func NewEquitiesCache(client *redis.Client, key string) *EquitiesCache {
	if key == "" {
		key = DefaultEquitiesKey
	}
	return &EquitiesCache{client: client, key: key}
}

// Get returns the stored entry, market.ErrCacheMiss, or errors.ErrCacheCorrupt
func (r *EquitiesCache) Get(ctx context.Context) (*market.CacheEntry, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, market.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read equities cache from redis: key=%s", r.key)
	}

	var entry market.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "redis key %s: %v", r.key, err)
	}
	if entry.WrittenAt.IsZero() {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "redis key %s: missing timestamp", r.key)
	}

	return &entry, nil
}

// Set replaces the entry
func (r *EquitiesCache) Set(ctx context.Context, entry market.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to marshal equities cache entry")
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to write equities cache to redis: key=%s", r.key)
	}
	return nil
}

// Clear removes the entry
func (r *EquitiesCache) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrapf(err, "failed to clear equities cache: key=%s", r.key)
	}
	return nil
}
