package shared

import (
	"context"
	"time"
)

// IdempotentResult is the recorded outcome of a completed request
type IdempotentResult struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyStore remembers request keys so a retried POST is not applied twice
type IdempotencyStore interface {
	// Claim marks key in flight for ttl. It returns true when the key was
	// newly claimed. Otherwise it returns the recorded result, or nil while
	// the first request is still running.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, *IdempotentResult, error)

	// Complete records the result of a claimed key for ttl
	Complete(ctx context.Context, key string, result IdempotentResult, ttl time.Duration) error

	// Release forgets key, so a failed request can be retried with it
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
