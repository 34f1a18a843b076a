package common

import "time"

// CacheInterface is the contract both cache backends satisfy. Catalog reads
// go through it so deployments can run with the in-memory cache or Redis.
type CacheInterface interface {
	// Set stores a value under key for the given duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value by key; the bool reports whether it was found
	Get(key string) (interface{}, bool)

	// Delete removes a value by key
	Delete(key string)

	// GetOrSet returns the cached value, or runs loader and caches its result
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections
	Close() error
}
