package visit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"frontend/internal/providers/redis"

	goredis "github.com/redis/go-redis/v9"
)

var ErrNoLatch = errors.New("visit latch not found")

// Store keeps the one-shot fetch latch and the snapshot of each mount.
// Acquire returns true to exactly one caller per mount for the mount's
// lifetime. Nothing ever clears a latch early. LatchedAt reports when the
// winning Acquire happened.
type Store interface {
	Acquire(ctx context.Context, m Mount) (bool, error)
	LatchedAt(ctx context.Context, m Mount) (time.Time, error)
	Save(ctx context.Context, m Mount, snap *Snapshot) error
	Load(ctx context.Context, m Mount) (*Snapshot, error)
}

type redisStore struct {
	redisP *redis.RedisProvider
	ttl    time.Duration
}

func NewRedisStore(redisP *redis.RedisProvider, ttl time.Duration) Store {
	return &redisStore{redisP: redisP, ttl: ttl}
}

func (s *redisStore) Acquire(ctx context.Context, m Mount) (bool, error) {
	return s.redisP.SetNX(ctx, m.key("fetched"), time.Now().UTC().UnixMilli(), s.ttl).Result()
}

func (s *redisStore) LatchedAt(ctx context.Context, m Mount) (time.Time, error) {
	ms, err := s.redisP.Get(ctx, m.key("fetched")).Int64()
	if errors.Is(err, goredis.Nil) {
		return time.Time{}, ErrNoLatch
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (s *redisStore) Save(ctx context.Context, m Mount, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.redisP.SetWithDefaultTTL(ctx, m.key("snapshot"), data, s.ttl).Err()
}

func (s *redisStore) Load(ctx context.Context, m Mount) (*Snapshot, error) {
	data, err := s.redisP.Get(ctx, m.key("snapshot")).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

type memoryEntry struct {
	snap      *Snapshot
	expiresAt time.Time
}

type memoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	latches   map[string]time.Time // acquisition times
	snapshots map[string]memoryEntry
}

// NewMemoryStore keeps mounts in process. It is used when Redis is not
// configured and in tests.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		ttl:       ttl,
		now:       time.Now,
		latches:   make(map[string]time.Time),
		snapshots: make(map[string]memoryEntry),
	}
}

func (s *memoryStore) Acquire(_ context.Context, m Mount) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := m.key("fetched")
	if acquiredAt, ok := s.latches[key]; ok && now.Before(acquiredAt.Add(s.ttl)) {
		return false, nil
	}
	s.latches[key] = now
	s.purge(now)
	return true, nil
}

func (s *memoryStore) LatchedAt(_ context.Context, m Mount) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acquiredAt, ok := s.latches[m.key("fetched")]
	if !ok || !s.now().Before(acquiredAt.Add(s.ttl)) {
		return time.Time{}, ErrNoLatch
	}
	return acquiredAt, nil
}

func (s *memoryStore) Save(_ context.Context, m Mount, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[m.key("snapshot")] = memoryEntry{snap: snap, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *memoryStore) Load(_ context.Context, m Mount) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.snapshots[m.key("snapshot")]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, ErrNoSnapshot
	}
	return entry.snap, nil
}

// purge drops expired mounts. Caller holds mu.
func (s *memoryStore) purge(now time.Time) {
	for key, acquiredAt := range s.latches {
		if !now.Before(acquiredAt.Add(s.ttl)) {
			delete(s.latches, key)
		}
	}
	for key, entry := range s.snapshots {
		if !now.Before(entry.expiresAt) {
			delete(s.snapshots, key)
		}
	}
}
