// Package cache memoizes feasibility-check results.
//
// Checks are pure functions of their input bundle, so results are cached
// under a content hash of the canonical input JSON. Three backends implement
// the same interface:
//
//   - [FileCache]: per-user cache directory, for CLI usage
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLResult is how long feasibility results stay cached. Results are
// deterministic, so the TTL only bounds cache growth.
const TTLResult = 30 * 24 * time.Hour

// ErrCacheMiss is returned by backends that distinguish misses from
// failures; most callers should rely on the hit flag instead.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte values under string keys with per-entry TTL.
// Implementations must treat Get misses as (nil, false, nil), not errors.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// CheckKey builds the cache key for a feasibility check from the canonical
// input JSON (see pkg/graph Input.Canonical).
func CheckKey(canonical []byte) string {
	return "check:" + Hash(canonical)
}
