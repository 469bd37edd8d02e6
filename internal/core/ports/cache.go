// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository is the read-through cache used for dashboard
// aggregates and export payloads. Keys are invalidated whenever a
// checkout or import changes the underlying stock.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// GetOrSet fills dest from the cache, falling back to fetch and
	// storing the result for ttl on a miss.
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	Increment(ctx context.Context, key string) (int64, error)
	IncrementBy(ctx context.Context, key string, value int64) (int64, error)

	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	TTL(ctx context.Context, key string) (time.Duration, error)
	Flush(ctx context.Context) error
	Ping(ctx context.Context) error
}

// CacheInvalidator drops derived cache entries after a write. The
// services call it on every mutation so the dashboard and listings
// never serve stale stock for a full TTL.
type CacheInvalidator interface {
	// InvalidateMedicineCache drops entries derived from one medicine:
	// its own entries, list and search pages, and the dashboard and
	// report aggregates built over stock.
	InvalidateMedicineCache(ctx context.Context, medicineID string) error

	// InvalidateCatalogCache drops every catalog-derived entry, used
	// after bulk imports that touch many medicines at once.
	InvalidateCatalogCache(ctx context.Context) error

	// InvalidateSalesCache drops the dashboard and report aggregates
	// after ledger-only changes such as bulk sale deletion.
	InvalidateSalesCache(ctx context.Context) error
}
