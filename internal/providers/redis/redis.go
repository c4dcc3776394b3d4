package redis

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const monitorInterval = 5 * time.Second

// RedisProvider wraps a go-redis client with a default TTL for writes and
// command logging that never records values.
type RedisProvider struct {
	Client    *redis.Client
	URL       string
	logger    *zap.SugaredLogger
	ttl       time.Duration
	connected atomic.Bool
}

// NewRedisProvider connects lazily; an unreachable server is logged, not fatal.
// The connection monitor stops when ctx is done.
func NewRedisProvider(ctx context.Context, redisURL string, logger *zap.Logger, ttl time.Duration) *RedisProvider {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}
	opts.MaxRetries = 3
	opts.MinRetryBackoff = 100 * time.Millisecond
	opts.MaxRetryBackoff = 500 * time.Millisecond

	p := &RedisProvider{
		Client: redis.NewClient(opts),
		URL:    redisURL,
		logger: logger.Sugar(),
		ttl:    ttl,
	}
	p.Client.AddHook(&loggerHook{logger: p.logger})

	if err := p.Client.Ping(ctx).Err(); err != nil {
		p.logger.Errorw("Redis connection failed at startup", "url", redisURL, "error", err)
	} else {
		p.connected.Store(true)
		p.logger.Infow("Redis connected", "url", redisURL, "db", opts.DB, "default_ttl", ttl.String())
	}

	go p.monitor(ctx, monitorInterval)
	return p
}

// Connected reports the outcome of the most recent monitor ping.
func (r *RedisProvider) Connected() bool {
	return r.connected.Load()
}

func (r *RedisProvider) withTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return r.ttl
	}
	return ttl
}

func (r *RedisProvider) SetWithDefaultTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	return r.Client.Set(ctx, key, value, r.withTTL(ttl))
}

// SetNX stores value only if key is absent, using the default TTL when ttl <= 0.
func (r *RedisProvider) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	return r.Client.SetNX(ctx, key, value, r.withTTL(ttl))
}

func (r *RedisProvider) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.Client.Get(ctx, key)
}

func (r *RedisProvider) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.Client.Del(ctx, keys...)
}

func (r *RedisProvider) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisProvider) Close() error {
	return r.Client.Close()
}

func (r *RedisProvider) monitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := r.Client.Ping(ctx).Err()
			if ctx.Err() != nil {
				return
			}
			was := r.connected.Swap(err == nil)
			switch {
			case was && err != nil:
				r.logger.Errorw("Redis disconnected", "error", err)
			case !was && err == nil:
				r.logger.Infow("Redis reconnected", "url", r.URL)
			}
		}
	}
}

type loggerHook struct {
	logger *zap.SugaredLogger
}

func (h *loggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Errorw("Redis dial failed", "network", network, "addr", addr, "error", err)
		} else {
			h.logger.Debugw("Redis dialed", "network", network, "addr", addr)
		}
		return conn, err
	}
}

func (h *loggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.log("Redis command", cmd, time.Since(start), err)
		return err
	}
}

func (h *loggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		took := time.Since(start)
		for _, cmd := range cmds {
			h.log("Redis pipeline command", cmd, took, err)
		}
		return err
	}
}

func (h *loggerHook) log(msg string, cmd redis.Cmder, took time.Duration, err error) {
	if cmd.Name() == "ping" && err == nil {
		return
	}
	fields := []interface{}{
		"command", cmd.Name(),
		"key", commandKey(cmd),
		"duration_ms", took.Milliseconds(),
	}
	// redis.Nil is a miss.
	if err != nil && err != redis.Nil {
		h.logger.Errorw(msg+" failed", append(fields, "error", err)...)
		return
	}
	h.logger.Debugw(msg+" executed", fields...)
}

// commandKey avoids logging values; session payloads carry credentials.
func commandKey(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	key, _ := args[1].(string)
	return key
}
