package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisCache shares verdicts between guardrail instances. Redis expires keys
// on its own; the timestamp is re-checked on read so a stale entry is never served.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	now    func() time.Time
	logger *zerolog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, prefix string, logger *zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		now:    time.Now,
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (CachedVerdict, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedVerdict{}, false, nil
	}
	if err != nil {
		return CachedVerdict{}, false, fmt.Errorf("redis get verdict: %w", err)
	}

	var entry CachedVerdict
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cached verdict")
		return CachedVerdict{}, false, nil
	}
	if expired(entry, c.now(), c.ttl) {
		return CachedVerdict{}, false, nil
	}
	return entry, true, nil
}

func (c *RedisCache) Put(ctx context.Context, entry CachedVerdict) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cached verdict: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+entry.Key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set verdict: %w", err)
	}
	return nil
}
