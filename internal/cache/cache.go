package cache

import "time"

// Cache is a key-value store whose entries expire after a per-entry TTL.
// Implementations may or may not be goroutine-safe depending on configuration.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and younger than its TTL.
	Get(key K) (V, bool)

	// Set stores the value. If ttl <= 0, the entry does not expire.
	Set(key K, value V, ttl time.Duration)

	// SetAll stores every pair in one write, stamped with the same time.
	SetAll(values map[K]V, ttl time.Duration)

	// Delete removes a key if present.
	Delete(key K)

	// Len returns the number of live entries.
	Len() int

	// Clear removes all entries.
	Clear()
}
