package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore is the shared store behind the send-window counters and the
// executor idempotency records. Increment must be atomic across workers.
type CounterStore interface {
	// Increment adds one to the counter and returns the new value. The TTL
	// is applied when the key is first created.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Decrement releases a previously taken slot. The counter never goes
	// below zero.
	Decrement(ctx context.Context, key string) error
	// Get returns the current counter value, zero when the key is absent.
	Get(ctx context.Context, key string) (int64, error)
	// SetNX stores value under key only if the key is absent. Returns true
	// when the value was stored.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// GetValue returns the stored value, or "" when the key is absent.
	GetValue(ctx context.Context, key string) (string, error)
	// Delete removes a key. Used to release an idempotency lock after a
	// failed send.
	Delete(ctx context.Context, key string) error
}

// RedisCounterStore implements CounterStore on a Redis connection.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore connects to the broker URL (redis://...).
func NewRedisCounterStore(brokerURL string) (*RedisCounterStore, error) {
	opts, err := redis.ParseURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &RedisCounterStore{client: redis.NewClient(opts)}, nil
}

// NewRedisCounterStoreFromClient wraps an existing client. Used by tests
// with miniredis.
func NewRedisCounterStoreFromClient(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisCounterStore) Decrement(ctx context.Context, key string) error {
	val, err := s.client.Decr(ctx, key).Result()
	if err != nil {
		return err
	}
	if val < 0 {
		return s.client.Set(ctx, key, 0, redis.KeepTTL).Err()
	}
	return nil
}

func (s *RedisCounterStore) Get(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func (s *RedisCounterStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

func (s *RedisCounterStore) GetValue(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisCounterStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Ping checks broker reachability for the readiness probe.
func (s *RedisCounterStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MemoryCounterStore is an in-process CounterStore for tests and for
// single-node development without a broker.
type MemoryCounterStore struct {
	mu      sync.Mutex
	counts  map[string]int64
	values  map[string]string
	expires map[string]time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counts:  make(map[string]int64),
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (s *MemoryCounterStore) expire(key string) {
	if exp, ok := s.expires[key]; ok && time.Now().After(exp) {
		delete(s.counts, key)
		delete(s.values, key)
		delete(s.expires, key)
	}
}

func (s *MemoryCounterStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(key)
	if _, ok := s.counts[key]; !ok {
		s.expires[key] = time.Now().Add(ttl)
	}
	s.counts[key]++
	return s.counts[key], nil
}

func (s *MemoryCounterStore) Decrement(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(key)
	if s.counts[key] > 0 {
		s.counts[key]--
	}
	return nil
}

func (s *MemoryCounterStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(key)
	return s.counts[key], nil
}

func (s *MemoryCounterStore) SetNX(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(key)
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value
	s.expires[key] = time.Now().Add(ttl)
	return true, nil
}

func (s *MemoryCounterStore) GetValue(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(key)
	return s.values[key], nil
}

func (s *MemoryCounterStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
	delete(s.values, key)
	delete(s.expires, key)
	return nil
}
