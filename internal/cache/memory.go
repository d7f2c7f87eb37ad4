package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MemoryCache is a bounded in-process VerdictCache. Expiry is checked under
// the same lock as the lookup, and expired entries are evicted lazily.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]CachedVerdict
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	logger     *zerolog.Logger
}

func NewMemoryCache(ttl time.Duration, maxEntries int, logger *zerolog.Logger) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]CachedVerdict),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the time source; used by tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) (CachedVerdict, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return CachedVerdict{}, false, nil
	}
	if expired(entry, c.now(), c.ttl) {
		delete(c.entries, key)
		return CachedVerdict{}, false, nil
	}
	return entry, true, nil
}

func (c *MemoryCache) Put(ctx context.Context, entry CachedVerdict) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[entry.Key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[entry.Key] = entry
	return nil
}

// evictLocked drops every expired entry, or the oldest one when none expired.
func (c *MemoryCache) evictLocked() {
	now := c.now()
	var (
		oldestKey string
		oldestAt  time.Time
		removed   int
	)
	for key, e := range c.entries {
		if expired(e, now, c.ttl) {
			delete(c.entries, key)
			removed++
			continue
		}
		if oldestKey == "" || e.Timestamp.Before(oldestAt) {
			oldestKey, oldestAt = key, e.Timestamp
		}
	}
	if removed == 0 && oldestKey != "" {
		delete(c.entries, oldestKey)
		removed++
	}

	c.logger.Debug().Int("evicted", removed).Msg("verdict cache full")
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
