package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *StockCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute)
}

type payload struct {
	N int `json:"n"`
}

func TestFetchJSON_CacheaHastaBump(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return payload{N: calls}, nil
	}

	key, err := c.BuildKey(ctx, "dashboard", "products")
	require.NoError(t, err)
	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, got.N)

	require.NoError(t, c.Bump(ctx))
	key2, err := c.BuildKey(ctx, "dashboard", "products")
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
	require.NoError(t, c.FetchJSON(ctx, key2, &got, loader))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, got.N)
}

func TestStockCache_SinClienteLlamaSiempreAlLoader(t *testing.T) {
	ctx := context.Background()
	var c *StockCache
	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return payload{N: 7}, nil
	}
	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 7, got.N)
	assert.NoError(t, c.Bump(ctx))
}
