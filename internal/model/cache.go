package model

import (
	"context"
	"time"
)

// Cache is a key-value store with per-key expiry, shared by every
// instance of the server. Implementations must be safe for concurrent use.
// Every ttl must be positive; Put and Increment return ErrInvalidTTL otherwise.
type Cache interface {
	// Put stores value under key for ttl.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the keys; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Increment atomically adds one to the integer stored under key and
	// returns the new value. ttl is applied only when the key is created.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
