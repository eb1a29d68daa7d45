package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts hits per key in fixed windows
type RateLimiter interface {
	// Allow counts a hit for key and reports whether it is within the limit,
	// with the hits left in the current window
	Allow(ctx context.Context, key string) (bool, int, error)
	Limit() int
}

// RedisRateLimiter shares windows between instances
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a limiter allowing limit hits per window
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: "mercearia:ratelimit:", limit: limit, window: window}
}

// Allow implements RateLimiter. The window starts at the first hit.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	k := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	hits := int(incr.Val())
	return hits <= l.limit, max(l.limit-hits, 0), nil
}

// Limit implements RateLimiter
func (l *RedisRateLimiter) Limit() int { return l.limit }

type window struct {
	hits  int
	start time.Time
}

// MemoryRateLimiter keeps windows in process memory. Expired windows are
// swept when the map grows past sweepAt.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	sweepAt int
	now     func() time.Time
}

// NewMemoryRateLimiter creates a limiter allowing limit hits per window
func NewMemoryRateLimiter(limit int, period time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		sweepAt: 1024,
		now:     time.Now,
	}
}

// Allow implements RateLimiter
func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.windows) >= l.sweepAt {
		for k, w := range l.windows {
			if now.Sub(w.start) >= l.period {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.hits++
	return w.hits <= l.limit, max(l.limit-w.hits, 0), nil
}

// Limit implements RateLimiter
func (l *MemoryRateLimiter) Limit() int { return l.limit }

var (
	_ RateLimiter = (*RedisRateLimiter)(nil)
	_ RateLimiter = (*MemoryRateLimiter)(nil)
)
