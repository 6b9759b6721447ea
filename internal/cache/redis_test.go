// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/patlas/patlas/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(RedisConfig{Addr: mr.Addr()}, log.WithComponent("cache-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newRedisCache(t)

	c.Set("k", map[string]any{"n": "Builder"}, time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Builder", m["n"])

	_, ok = c.Get("missing")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestRedisCacheTTL(t *testing.T) {
	c, mr := newRedisCache(t)

	c.Set("k", "v", time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestRedisCacheDeleteAndClear(t *testing.T) {
	c, _ := newRedisCache(t)

	c.Set("a", 1, time.Minute)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("b", 2, time.Minute)
	c.Clear()
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestRedisCacheHealthCheck(t *testing.T) {
	c, mr := newRedisCache(t)
	assert.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, log.WithComponent("cache-test"))
	assert.Error(t, err)
}
