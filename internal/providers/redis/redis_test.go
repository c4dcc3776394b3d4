package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisProviderSetNXUsesDefaultTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewRedisProvider(ctx, "redis://"+mr.Addr(), zap.NewNop(), time.Minute)
	defer p.Close()

	ok, err := p.SetNX(ctx, "latch", "1", 0).Result()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.SetNX(ctx, "latch", "1", 0).Result()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("latch"))
	assert.NoError(t, p.Ping(ctx))
}

func TestRedisProviderAcceptsBareAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewRedisProvider(ctx, mr.Addr(), zap.NewNop(), time.Minute)
	defer p.Close()

	require.NoError(t, p.SetWithDefaultTTL(ctx, "k", "v", 0).Err())
	got, err := p.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedisProviderTracksConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewRedisProvider(ctx, mr.Addr(), zap.NewNop(), time.Minute)
	defer p.Close()
	assert.True(t, p.Connected())

	down := NewRedisProvider(ctx, "127.0.0.1:1", zap.NewNop(), time.Minute)
	defer down.Close()
	assert.False(t, down.Connected())
}

func TestCommandKeyOmitsValues(t *testing.T) {
	cmd := goredis.NewStatusCmd(context.Background(), "set", "session:abc", "secret")
	assert.Equal(t, "session:abc", commandKey(cmd))
	assert.Empty(t, commandKey(goredis.NewStatusCmd(context.Background(), "ping")))
}
