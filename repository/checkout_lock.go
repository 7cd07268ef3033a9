package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckoutLock guards the one-attempt-per-user rule. Acquire returns false
// when an attempt is already in flight. The TTL bounds how long a wedged
// attempt can block the user: a request that never resolves expires with it.
type CheckoutLock interface {
	Acquire(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, userID string) error
}

type redisCheckoutLock struct {
	client *redis.Client
}

func NewRedisCheckoutLock(client *redis.Client) CheckoutLock {
	return &redisCheckoutLock{client: client}
}

func (l *redisCheckoutLock) getKey(userID string) string {
	return "checkout:inflight:" + userID
}

func (l *redisCheckoutLock) Acquire(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.getKey(userID), "1", ttl).Result()
}

func (l *redisCheckoutLock) Release(ctx context.Context, userID string) error {
	return l.client.Del(ctx, l.getKey(userID)).Err()
}

// memoryCheckoutLock is the single-process fallback, used when Redis is not
// configured and in tests.
type memoryCheckoutLock struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

func NewMemoryCheckoutLock() CheckoutLock {
	return &memoryCheckoutLock{expires: make(map[string]time.Time)}
}

func (l *memoryCheckoutLock) Acquire(_ context.Context, userID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if exp, ok := l.expires[userID]; ok && time.Now().Before(exp) {
		return false, nil
	}
	l.expires[userID] = time.Now().Add(ttl)
	return true, nil
}

func (l *memoryCheckoutLock) Release(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.expires, userID)
	return nil
}
