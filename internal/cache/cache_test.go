package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb), mr
}

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "tags:item:1", item{ID: 1, Name: "go"}, time.Minute))

	var got item
	found, err := c.Get(ctx, "tags:item:1", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "go", got.Name)
}

func TestRedisCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t)

	var got item
	found, err := c.Get(context.Background(), "nope", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "posts:item:1", item{ID: 1}, time.Second))
	mr.FastForward(2 * time.Second)

	var got item
	found, err := c.Get(ctx, "posts:item:1", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisCache_DeletePrefix(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, PostsPrefix+"list:"+strconv.Itoa(i), i, time.Minute))
	}
	require.NoError(t, c.Set(ctx, TagsPrefix+"list", []item{}, time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, PostsPrefix))

	require.Len(t, mr.Keys(), 2)
	require.True(t, mr.Exists(TagsPrefix+"list"))
	require.True(t, mr.Exists(generationPrefix+PostsPrefix))
}

func TestRedisCache_GenerationBumpsOnDeletePrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx, PostsPrefix)
	require.NoError(t, err)
	require.Zero(t, gen)

	require.NoError(t, c.DeletePrefix(ctx, PostsPrefix))
	require.NoError(t, c.DeletePrefix(ctx, PostsPrefix))

	gen, err = c.Generation(ctx, PostsPrefix)
	require.NoError(t, err)
	require.EqualValues(t, 2, gen)

	gen, err = c.Generation(ctx, TagsPrefix)
	require.NoError(t, err)
	require.Zero(t, gen)
}

func TestKey(t *testing.T) {
	require.Equal(t, "posts:g0:item:1", Key(PostsPrefix, 0, "item:1"))
	require.Equal(t, "tags:g3:list", Key(TagsPrefix, 3, "list"))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	found, err := c.Get(ctx, "k", new(int))
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.DeletePrefix(ctx, "k"))
	gen, err := c.Generation(ctx, "k")
	require.NoError(t, err)
	require.Zero(t, gen)
}
