package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheMissAndHit(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	_, err := mc.Get(ctx, "chart")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "chart", []byte("png"), time.Minute))
	v, err := mc.Get(ctx, "chart")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), v)
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	buf := []byte("abc")
	require.NoError(t, mc.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'x'

	v, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)

	v[1] = 'y'
	again, _ := mc.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	now := time.Unix(1700000000, 0)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Second))
	now = now.Add(2 * time.Second)

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	now := time.Unix(1700000000, 0)
	mc.now = func() time.Time { return now }
	tick := func() { now = now.Add(time.Millisecond) }

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))
	tick()
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), time.Minute))
	tick()
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	tick()
	require.NoError(t, mc.Set(ctx, "c", []byte("3"), time.Minute))

	_, err = mc.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = mc.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryCacheOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, mc.Set(ctx, "b", []byte("3"), time.Minute))

	assert.Equal(t, 2, mc.Len())
}

func TestMemoryCacheCloseIsIdempotent(t *testing.T) {
	mc := NewMemoryCache()
	assert.NoError(t, mc.Close())
	assert.NoError(t, mc.Close())
}

func TestLayeredCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()

	require.NoError(t, remote.Set(ctx, "panel:signals", []byte("pie"), time.Minute))

	v, err := lc.Get(ctx, "panel:signals")
	require.NoError(t, err)
	assert.Equal(t, []byte("pie"), v)

	// Served from L1 once the remote copy is gone.
	require.NoError(t, remote.Delete(ctx, "panel:signals"))
	v, err = lc.Get(ctx, "panel:signals")
	require.NoError(t, err)
	assert.Equal(t, []byte("pie"), v)

	require.NoError(t, lc.Delete(ctx, "panel:signals"))
	_, err = lc.Get(ctx, "panel:signals")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredCacheReadThroughKeepsRemoteExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	clock := func() time.Time { return now }

	remote := NewMemoryCache()
	remote.now = clock
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(10*time.Second))
	lc.memCache.now = clock
	defer lc.Close()

	require.NoError(t, remote.Set(ctx, "chart", []byte("png"), 2*time.Second))

	v, err := lc.Get(ctx, "chart")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), v)

	// L1 must not outlive the remote copy it was filled from.
	now = now.Add(3 * time.Second)
	_, err = lc.Get(ctx, "chart")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheGetWithTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	mc := NewMemoryCache()
	mc.now = func() time.Time { return now }
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(20 * time.Second)

	v, ttl, err := mc.GetWithTTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 40*time.Second, ttl)

	now = now.Add(time.Minute)
	_, _, err = mc.GetWithTTL(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredCacheWriteThrough(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Second))
	defer lc.Close()

	require.NoError(t, lc.Set(ctx, "chart", []byte("png"), time.Minute))

	v, err := remote.Get(ctx, "chart")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), v)
	assert.Equal(t, time.Second, lc.memoryTTL(time.Minute))
	assert.Equal(t, 500*time.Millisecond, lc.memoryTTL(500*time.Millisecond))
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	rc, err := NewRedisCache(ctx, WithRedisAddr(addr), WithRedisPrefix("pulseboard-test"), WithRedisConnectAttempts(1))
	require.NoError(t, err)
	defer rc.Close()

	require.NoError(t, rc.Set(ctx, "chart", []byte{0x89, 'P', 'N', 'G'}, time.Minute))
	v, err := rc.Get(ctx, "chart")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, v)

	_, ttl, err := rc.GetWithTTL(ctx, "chart")
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl %s", ttl)

	require.NoError(t, rc.Delete(ctx, "chart"))
	_, err = rc.Get(ctx, "chart")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, WithRedisAddr("127.0.0.1:1"), WithRedisConnectAttempts(1))
	assert.Error(t, err)
}
