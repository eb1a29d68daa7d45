package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/auth"
	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locks is a Locker that can also hand out claims
type Locks interface {
	Locker
	Claimer
}

// Stores are the short-lived keyed stores: idempotency keys, revoked
// tokens and named locks. They live in Redis when it is enabled.
type Stores struct {
	Idempotency shared.IdempotencyStore
	Revocations auth.RevocationList
	Locks       Locks
	client      *redis.Client
}

// NewStores connects to Redis when cfg enables it and falls back to
// process memory otherwise
func NewStores(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Stores, error) {
	if !cfg.Enabled {
		logger.Info("redis disabled, idempotency keys and token revocations kept in memory")
		return &Stores{
			Idempotency: NewInMemoryIdempotencyStore(),
			Revocations: auth.NewInMemoryRevocationList(),
			Locks:       NewLocalLocker(),
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info("using redis for idempotency keys and token revocations", zap.String("addr", cfg.Addr()))
	return &Stores{
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Revocations: auth.NewRedisRevocationList(client),
		Locks:       NewRedisLocker(redislock.New(client)),
		client:      client,
	}, nil
}

// RateLimiter returns a limiter on the same backend as the other stores
func (s *Stores) RateLimiter(limit int, window time.Duration) RateLimiter {
	if s.client != nil {
		return NewRedisRateLimiter(s.client, limit, window)
	}
	return NewMemoryRateLimiter(limit, window)
}

// Client returns the redis client, or nil when Redis is disabled
func (s *Stores) Client() *redis.Client {
	return s.client
}

// Close releases the stores and the redis client
func (s *Stores) Close() error {
	err := s.Idempotency.Close()
	if s.client != nil {
		if cerr := s.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
