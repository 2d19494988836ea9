package common

import "time"

// CacheInterface is the process-local store for derived read models such as
// dashboard counters. Values are shared, so callers must not mutate them.
type CacheInterface interface {
	Set(key string, value any, ttl time.Duration)
	Get(key string) (any, bool)
	// Delete invalidates a key after a write that changes it
	Delete(key string)
	// GetOrSet loads and stores key on a miss; loader errors are not cached
	GetOrSet(key string, ttl time.Duration, loader func() (any, error)) (any, error)
}
