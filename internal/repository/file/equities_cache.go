package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"botbi/internal/domain/market"
	"botbi/pkg/errors"
)

var _ market.CacheStore = (*EquitiesCache)(nil)

// EquitiesCache persists the equities entry as a JSON document on local disk.
// Writes go to a temp file in the same directory and are renamed into place.
type EquitiesCache struct {
	mu   sync.RWMutex
	path string
}

// NewEquitiesCache creates a file-backed cache at path
func NewEquitiesCache(path string) *EquitiesCache {
	return &EquitiesCache{path: path}
}

// Path returns the cache file location
func (c *EquitiesCache) Path() string {
	return c.path
}

// Get reads the entry. A missing file is a miss; an unreadable or undecodable one is corrupt.
func (c *EquitiesCache) Get(ctx context.Context) (*market.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, market.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "read %s: %v", c.path, err)
	}

	var entry market.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "decode %s: %v", c.path, err)
	}
	if entry.WrittenAt.IsZero() {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "%s: missing timestamp", c.path)
	}

	return &entry, nil
}

// Set replaces the entry
func (c *EquitiesCache) Set(ctx context.Context, entry market.CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal equities cache entry")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create cache dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".equities-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp cache file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp cache file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp cache file")
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return errors.Wrapf(err, "replace %s", c.path)
	}
	return nil
}

// Clear deletes the file. Clearing an absent file is not an error.
func (c *EquitiesCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", c.path)
	}
	return nil
}
