package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	var got cachedThing
	found, err := GetCache(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "thing", cachedThing{Name: "plan", Count: 2}, time.Minute))
	found, err = GetCache(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedThing{Name: "plan", Count: 2}, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, "thing", &got)
	require.NoError(t, err)
	assert.False(t, found, "entry should expire with its TTL")

	require.NoError(t, SetCache(ctx, rdb, "thing", cachedThing{Name: "x"}, time.Minute))
	require.NoError(t, DeleteCache(ctx, rdb, "thing"))
	assert.False(t, mr.Exists("thing"))
}

func TestCache_NilClient(t *testing.T) {
	ctx := context.Background()
	var dest cachedThing

	found, err := GetCache(ctx, nil, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", dest, time.Minute))
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
}
