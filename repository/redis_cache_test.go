package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on and fails fast.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	c := NewRedisCacheWithClient(unreachableClient(), time.Minute)
	defer c.Close()
	ctx := context.Background()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "connection errors are reported as misses")

	assert.Error(t, c.Set(ctx, "k", "v", 0))
	assert.Error(t, c.Ping(ctx))
}

func newMiniredisCache(t *testing.T, defaultTTL time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr(), "", 0, defaultTTL)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "loan:schedule:v1:1000:5:1", `{"periods":12}`, 30*time.Second))

	val, ok := c.Get(ctx, "loan:schedule:v1:1000:5:1")
	assert.True(t, ok)
	assert.Equal(t, `{"periods":12}`, val)
	assert.Equal(t, 30*time.Second, mr.TTL("loan:schedule:v1:1000:5:1"))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newMiniredisCache(t, time.Minute)

	val, ok := c.Get(context.Background(), "absent")
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	c, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "entry should expire after the default TTL")
}

func TestRedisCache_ServerGoesAway(t *testing.T) {
	c, mr := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	mr.Close()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "errors other than a miss are still reported as misses")
}
