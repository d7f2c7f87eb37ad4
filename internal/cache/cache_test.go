package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func entry(key string, at time.Time) CachedVerdict {
	return CachedVerdict{
		Key:     key,
		IsValid: true,
		Verdicts: map[models.ValidationType]models.ValidatorVerdict{
			models.ValidationSafety: {ValidatorType: models.ValidationSafety, Passed: true, Confidence: 1},
		},
		Timestamp: at,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("q", "r"), Key("q", "r"))
	assert.NotEqual(t, Key("q", "r"), Key("qr", ""))
	assert.Len(t, Key("", ""), 64)
}

func TestMemoryCache_TTL(t *testing.T) {
	logger := zerolog.Nop()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Minute, 10, &logger).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, entry("k", clock.Now())))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsValid)

	clock.Advance(59 * time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.True(t, ok, "entry should still be fresh")

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry at exactly ttl must not be served")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestMemoryCache_EvictsOldestWhenFull(t *testing.T) {
	logger := zerolog.Nop()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Hour, 2, &logger).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, entry("a", clock.Now())))
	clock.Advance(time.Second)
	require.NoError(t, c.Put(ctx, entry("b", clock.Now())))
	clock.Advance(time.Second)
	require.NoError(t, c.Put(ctx, entry("c", clock.Now())))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_EvictsExpiredFirst(t *testing.T) {
	logger := zerolog.Nop()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Minute, 2, &logger).WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, entry("old", clock.Now())))
	clock.Advance(2 * time.Minute)
	require.NoError(t, c.Put(ctx, entry("fresh", clock.Now())))
	require.NoError(t, c.Put(ctx, entry("new", clock.Now())))

	_, ok, _ := c.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "new")
	assert.True(t, ok)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	logger := zerolog.Nop()
	c := NewMemoryCache(time.Hour, 50, &logger)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%60)
			_ = c.Put(ctx, entry(key, time.Now()))
			_, _, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, time.Minute, "guardrail-test:", &logger)
	key := Key("q", fmt.Sprintf("r-%d", time.Now().UnixNano()))

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, entry(key, time.Now())))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Verdicts[models.ValidationSafety].Passed)

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok, _ = c.Get(ctx, key)
	assert.False(t, ok)
}
