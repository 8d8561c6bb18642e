package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestReadSet_AddAndContains(t *testing.T) {
	t.Parallel()

	rs := NewReadSet(testRedis(t), 10)
	ctx := context.Background()

	require.NoError(t, rs.Add(ctx, "notifread:1", "show1_ep5"))

	ok, err := rs.Contains(ctx, "notifread:1", "show1_ep5")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rs.Contains(ctx, "notifread:1", "show1_ep6")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadSet_EvictsOldestBeyondCapacity(t *testing.T) {
	t.Parallel()

	rs := NewReadSet(testRedis(t), 200)
	ctx := context.Background()

	for i := 0; i < 205; i++ {
		require.NoError(t, rs.Add(ctx, "notifread:1", fmt.Sprintf("show_ep%d", i)))
	}

	members, err := rs.Members(ctx, "notifread:1")
	require.NoError(t, err)
	assert.Len(t, members, 200)

	// The five oldest entries are gone, the newest survive.
	ok, err := rs.Contains(ctx, "notifread:1", "show_ep0")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = rs.Contains(ctx, "notifread:1", "show_ep204")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadSet_MemoryFallbackMatchesSemantics(t *testing.T) {
	t.Parallel()

	rs := NewReadSet(nil, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, rs.Add(ctx, "k", fmt.Sprintf("m%d", i)))
	}
	members, err := rs.Members(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, members, 3)

	ok, err := rs.Contains(ctx, "k", "m0")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = rs.Contains(ctx, "k", "m4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldown_AllowsOncePerWindow(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cd := NewCooldown(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	ok, err := cd.Allow(ctx, "viewthrottle:s1:u1", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cd.Allow(ctx, "viewthrottle:s1:u1", 30*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(31 * time.Minute)

	ok, err = cd.Allow(ctx, "viewthrottle:s1:u1", 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldown_IndependentKeys(t *testing.T) {
	t.Parallel()

	cd := NewCooldown(testRedis(t))
	ctx := context.Background()

	ok, err := cd.Allow(ctx, "viewthrottle:s1:u1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cd.Allow(ctx, "viewthrottle:s2:u1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
