package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"frontend/internal/providers/redis"

	goredis "github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Repository stores sessions field by field. Update and TakeFlash touch only
// the fields they name, so concurrent requests from one browser never
// overwrite each other's changes, and neither recreates a deleted session.
type Repository interface {
	Get(ctx context.Context, key string) (*Session, error)
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, key string, patch Patch) error
	TakeFlash(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ARGV: ttl in ms, number of set pairs n, n field/value pairs, fields to delete.
var updateScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
local n = tonumber(ARGV[2])
for i = 0, n - 1 do
  redis.call('HSET', KEYS[1], ARGV[3 + 2 * i], ARGV[4 + 2 * i])
end
for i = 3 + 2 * n, #ARGV do
  redis.call('HDEL', KEYS[1], ARGV[i])
end
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return 1
`)

var takeFlashScript = goredis.NewScript(`
local v = redis.call('HGET', KEYS[1], 'flash')
if v then
  redis.call('HDEL', KEYS[1], 'flash')
end
return v
`)

type repository struct {
	redisP *redis.RedisProvider
	ttl    time.Duration
}

func NewRepository(redisP *redis.RedisProvider, ttl time.Duration) Repository {
	return &repository{redisP: redisP, ttl: ttl}
}

func sessionKey(key string) string {
	return "session:" + key
}

func (r *repository) Get(ctx context.Context, key string) (*Session, error) {
	fields, err := r.redisP.Client.HGetAll(ctx, sessionKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}
	return decodeFields(key, fields), nil
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	fields, err := encodeFields(session)
	if err != nil {
		return err
	}
	values := make([]interface{}, 0, 2*len(fields))
	for k, v := range fields {
		values = append(values, k, v)
	}

	key := sessionKey(session.Key)
	_, err = r.redisP.Client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values...)
		pipe.PExpire(ctx, key, r.ttl)
		return nil
	})
	return err
}

// Update refreshes the TTL, so active sessions slide forward.
func (r *repository) Update(ctx context.Context, key string, patch Patch) error {
	args := []interface{}{r.ttl.Milliseconds(), len(patch.Set)}
	for k, v := range patch.Set {
		args = append(args, k, v)
	}
	for _, k := range patch.Unset {
		args = append(args, k)
	}

	applied, err := updateScript.Run(ctx, r.redisP.Client, []string{sessionKey(key)}, args...).Int()
	if err != nil {
		return err
	}
	if applied == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *repository) TakeFlash(ctx context.Context, key string) (string, error) {
	message, err := takeFlashScript.Run(ctx, r.redisP.Client, []string{sessionKey(key)}).Text()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return message, err
}

func (r *repository) Delete(ctx context.Context, key string) error {
	return r.redisP.Del(ctx, sessionKey(key)).Err()
}

type memoryEntry struct {
	fields    map[string]string
	expiresAt time.Time
}

type memoryRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryEntry
	purgedAt time.Time
}

// NewMemoryRepository keeps sessions in process, for Redis-less runs and
// tests, with the same field semantics and sliding TTL as the Redis store.
func NewMemoryRepository(ttl time.Duration) Repository {
	return &memoryRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryEntry),
	}
}

// live returns the unexpired entry for key. Caller holds mu.
func (r *memoryRepository) live(key string) (*memoryEntry, bool) {
	entry, ok := r.sessions[key]
	if !ok {
		return nil, false
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.sessions, key)
		return nil, false
	}
	return entry, true
}

func (r *memoryRepository) Get(_ context.Context, key string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(key)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeFields(key, entry.fields), nil
}

func (r *memoryRepository) Create(_ context.Context, session *Session) error {
	fields, err := encodeFields(session)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.purge(now)
	r.sessions[session.Key] = &memoryEntry{fields: fields, expiresAt: now.Add(r.ttl)}
	return nil
}

func (r *memoryRepository) Update(_ context.Context, key string, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(key)
	if !ok {
		return ErrSessionNotFound
	}
	for k, v := range patch.Set {
		entry.fields[k] = v
	}
	for _, k := range patch.Unset {
		delete(entry.fields, k)
	}
	entry.expiresAt = r.now().Add(r.ttl)
	return nil
}

func (r *memoryRepository) TakeFlash(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live(key)
	if !ok {
		return "", nil
	}
	message := entry.fields[fieldFlash]
	delete(entry.fields, fieldFlash)
	return message, nil
}

func (r *memoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.sessions, key)
	r.mu.Unlock()
	return nil
}

// purge drops expired sessions, at most once per minute. Caller holds mu.
func (r *memoryRepository) purge(now time.Time) {
	if now.Sub(r.purgedAt) < time.Minute {
		return
	}
	r.purgedAt = now
	for key, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, key)
		}
	}
}
