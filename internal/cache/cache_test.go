package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, 24*time.Hour)
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_FreshRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "live", Count: 3}, time.Minute))

	var got payload
	ok, err := c.GetFresh(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "live", Count: 3}, got)
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c := newTestCache(t)

	var got payload
	ok, err := c.GetFresh(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_StaleEntrySurvivesLogicalExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "old"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var fresh payload
	ok, err := c.GetFresh(ctx, "k", &fresh)
	require.NoError(t, err)
	assert.False(t, ok, "entry past its logical TTL must not read as fresh")

	var stale payload
	ok, err = c.GetStale(ctx, "k", &stale)
	require.NoError(t, err)
	assert.True(t, ok, "entry past its logical TTL must still read as stale")
	assert.Equal(t, "old", stale.Name)
}

func TestCache_EmptySliceIsCacheable(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "empty", []payload{}, time.Minute))

	var got []payload
	ok, err := c.GetFresh(ctx, "empty", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestCache_DeleteAndSets(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "x"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var got payload
	ok, err := c.GetStale(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.AddToSet(ctx, SpacesIndexKey, "space_1"))
	require.NoError(t, c.AddToSet(ctx, SpacesIndexKey, "space_2"))
	require.NoError(t, c.AddToSet(ctx, SpacesIndexKey, "space_1"))

	members, err := c.SetMembers(ctx, SpacesIndexKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"space_1", "space_2"}, members)
}
