package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore_Lifecycle(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	claimed, result, err := store.Claim(ctx, "k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Nil(t, result)

	t.Run("in flight", func(t *testing.T) {
		claimed, result, err := store.Claim(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Nil(t, result)
	})

	require.NoError(t, store.Complete(ctx, "k1", shared.IdempotentResult{Status: 201, Body: []byte(`{"id":"x"}`)}, time.Hour))

	t.Run("replays the recorded result", func(t *testing.T) {
		claimed, result, err := store.Claim(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, claimed)
		require.NotNil(t, result)
		assert.Equal(t, 201, result.Status)
		assert.JSONEq(t, `{"id":"x"}`, string(result.Body))
	})

	t.Run("release allows a retry", func(t *testing.T) {
		require.NoError(t, store.Release(ctx, "k1"))
		claimed, _, err := store.Claim(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	})
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	claimed, _, _ := store.Claim(ctx, "k", time.Minute)
	require.True(t, claimed)

	now = now.Add(2 * time.Minute)
	claimed, _, _ = store.Claim(ctx, "k", time.Minute)
	assert.True(t, claimed, "expired key can be claimed again")

	now = now.Add(2 * time.Minute)
	store.cleanup()
	assert.Equal(t, 0, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentClaim(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, err := store.Claim(context.Background(), "same", time.Hour); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewStores_InMemoryWhenRedisDisabled(t *testing.T) {
	stores, err := NewStores(context.Background(), config.RedisConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	defer stores.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &LocalLocker{}, stores.Locks)
	assert.Nil(t, stores.Client())
	assert.IsType(t, &MemoryRateLimiter{}, stores.RateLimiter(5, time.Minute))
	require.NotNil(t, stores.Revocations)
}

func TestNewStores_UnreachableRedis(t *testing.T) {
	_, err := NewStores(context.Background(), config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, zap.NewNop())
	assert.Error(t, err)
}
