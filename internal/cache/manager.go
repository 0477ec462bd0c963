// Package cache provides the in-memory read caches: a generic TTL manager
// and the read-through entity cache invalidated by lifecycle events.
package cache

import (
	"context"
	"time"
)

// Manager is a typed TTL cache.
type Manager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
