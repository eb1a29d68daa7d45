package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// RedisIdempotencyStore shares idempotency keys between instances.
// A key holds "pending" while in flight, then the JSON encoded result.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing client
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "mercearia:idempotency:"
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// Claim implements shared.IdempotencyStore using SET NX
func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, *shared.IdempotentResult, error) {
	k := s.keyPrefix + key
	claimed, err := s.client.SetNX(ctx, k, pendingMarker, ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if claimed {
		return true, nil, nil
	}

	raw, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; the caller retries
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if string(raw) == pendingMarker {
		return false, nil, nil
	}
	var result shared.IdempotentResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, nil, fmt.Errorf("corrupt idempotency record %s: %w", key, err)
	}
	return false, &result, nil
}

// Complete implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, result shared.IdempotentResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to record idempotent result: %w", err)
	}
	return nil
}

// Release implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Close is a no-op: the client belongs to the Stores that created it
func (s *RedisIdempotencyStore) Close() error { return nil }

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
