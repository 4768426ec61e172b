package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestJSONRoundTripAndMiss(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	var out map[string]int
	require.ErrorIs(t, client.GetJSON(ctx, "missing", &out), ErrCacheMiss)

	require.NoError(t, client.SetJSON(ctx, "counts", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, client.GetJSON(ctx, "counts", &out))
	require.Equal(t, 1, out["a"])

	require.NoError(t, client.Delete(ctx, "counts"))
	require.ErrorIs(t, client.GetJSON(ctx, "counts", &out), ErrCacheMiss)
}

func TestJSONExpires(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "short", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var out string
	require.ErrorIs(t, client.GetJSON(ctx, "short", &out), ErrCacheMiss)
}

func TestAllowFixedWindow(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := client.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, ok, "call %d should pass", i+1)
	}

	ok, err := client.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = client.Allow(ctx, "login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}
