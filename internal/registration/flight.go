package registration

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FlightGuard admits at most one holder per key at a time.
type FlightGuard interface {
	// Acquire reports false when key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// MemoryFlights is an in-process FlightGuard.
type MemoryFlights struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryFlights() *MemoryFlights {
	return &MemoryFlights{held: make(map[string]struct{})}
}

func (m *MemoryFlights) Acquire(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.held[key]; busy {
		return false, nil
	}
	m.held[key] = struct{}{}
	return true, nil
}

func (m *MemoryFlights) Release(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.held, key)
	m.mu.Unlock()
	return nil
}

// RedisFlights shares the in-flight flag between server instances. The TTL
// only bounds how long a crashed holder can block a user; a live holder
// always releases explicitly.
type RedisFlights struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisFlights(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisFlights {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisFlights{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisFlights) Acquire(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.prefix+key, 1, r.ttl).Result()
}

func (r *RedisFlights) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
