package cache

import (
	"sync"
	"time"
)

// entry stores a cached value with the time it was written and the absolute
// expiration derived from it.
type entry[V any] struct {
	value     V
	storedAt  time.Time
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) live(at time.Time) bool {
	return e.expiresAt.IsZero() || at.Before(e.expiresAt)
}

// SimpleCache is a map-backed cache with optional concurrency safety.
// Expired entries are treated as misses and overwritten on the next Set;
// there is no background janitor.
type SimpleCache[K comparable, V any] struct {
	// nil when the owner serializes access itself.
	mu  *sync.RWMutex
	now func() time.Time

	items map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe guards every operation with a RWMutex. Leave it off when
	// the owner already holds its own lock around the cache.
	ConcurrencySafe bool

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	c := &SimpleCache[K, V]{
		now:   opts.Now,
		items: make(map[K]entry[V]),
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.ConcurrencySafe {
		c.mu = &sync.RWMutex{}
	}
	return c
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

func (c *SimpleCache[K, V]) newEntry(value V, at time.Time, ttl time.Duration) entry[V] {
	e := entry[V]{value: value, storedAt: at}
	if ttl > 0 {
		e.expiresAt = at.Add(ttl)
	}
	return e
}

// Get implements Cache.Get.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok || !e.live(c.now()) {
		return zero, false
	}
	return e.value, true
}

// Age reports how long ago a live entry was written.
func (c *SimpleCache[K, V]) Age(key K) (time.Duration, bool) {
	unlock := c.lockR()
	defer unlock()

	at := c.now()
	e, ok := c.items[key]
	if !ok || !e.live(at) {
		return 0, false
	}
	return at.Sub(e.storedAt), true
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()
	c.items[key] = c.newEntry(value, c.now(), ttl)
}

// SetAll implements Cache.SetAll.
func (c *SimpleCache[K, V]) SetAll(values map[K]V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()
	at := c.now()
	for k, v := range values {
		c.items[k] = c.newEntry(v, at, ttl)
	}
}

// Delete implements Cache.Delete.
func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	delete(c.items, key)
}

// Len implements Cache.Len.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	at := c.now()
	count := 0
	for _, e := range c.items {
		if e.live(at) {
			count++
		}
	}
	return count
}

// Clear implements Cache.Clear.
func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items = make(map[K]entry[V])
}

var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
