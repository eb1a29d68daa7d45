package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
)

// ErrLockNotObtained is returned when the lock stayed held past the wait
var ErrLockNotObtained = errors.New("cache: lock not obtained")

// Locker runs fn while holding a named lock
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Claimer hands a key to the first caller; later callers are refused until
// ttl passes. Nothing releases a claim early.
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLocker holds locks in Redis so they span processes
type RedisLocker struct {
	client *redislock.Client
	prefix string
	retry  time.Duration
}

// NewRedisLocker creates a RedisLocker on an existing redislock client
func NewRedisLocker(client *redislock.Client) *RedisLocker {
	return &RedisLocker{client: client, prefix: "mercearia:lock:", retry: 250 * time.Millisecond}
}

// WithLock waits for the lock until ctx is done. The lock expires after ttl
// if the holder dies.
func (l *RedisLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%w: %s", ErrLockNotObtained, key)
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}
	defer func() {
		// a fresh context so an expired caller context still releases
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = lock.Release(releaseCtx)
	}()
	return fn(ctx)
}

// Claim takes key for ttl without ever releasing it
func (l *RedisLocker) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	_, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return true, nil
}

// LocalLocker serializes callers within the process
type LocalLocker struct {
	mu     sync.Mutex
	locks  map[string]chan struct{}
	claims map[string]time.Time
}

// NewLocalLocker creates a LocalLocker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{}), claims: make(map[string]time.Time)}
}

// WithLock waits for key until ctx is done. ttl is ignored.
func (l *LocalLocker) WithLock(ctx context.Context, key string, _ time.Duration, fn func(context.Context) error) error {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", ErrLockNotObtained, key, ctx.Err())
	}
	defer func() { <-ch }()
	return fn(ctx)
}

// Claim takes key for ttl within the process
func (l *LocalLocker) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if until, ok := l.claims[key]; ok && now.Before(until) {
		return false, nil
	}
	l.claims[key] = now.Add(ttl)
	return true, nil
}
