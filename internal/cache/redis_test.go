package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/cache"
	"github.com/mtlprog/taskflow/internal/config"
)

func newRedis(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisFromClient(client), mr
}

func TestRedis_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	_, found, err := c.Get(ctx, "tasks:all")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "tasks:all", []byte(`[]`), 300*time.Second))
	value, found, err := c.Get(ctx, "tasks:all")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[]`), value)
	assert.Equal(t, 300*time.Second, mr.TTL("tasks:all"))

	require.NoError(t, c.Delete(ctx, "tasks:all"))
	assert.False(t, mr.Exists("tasks:all"))
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	require.NoError(t, c.Set(ctx, "user:stats:alice", []byte(`{}`), 120*time.Second))
	mr.FastForward(121 * time.Second)

	_, found, err := c.Get(ctx, "user:stats:alice")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)
	mr.Close()

	_, found, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Second))
	assert.Error(t, c.Delete(ctx, "k"))
}

func TestNewRedis_UnreachableIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c := cache.NewRedis(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1})
	t.Cleanup(func() { _ = c.Close() })

	assert.Error(t, c.Ping(ctx))
}
