package utils

import (
	"sync"
	"time"
)

// Cache holds a single value with an expiration time. The last stored value
// is kept after expiry so callers can fall back to stale data.
type Cache[T any] struct {
	value    T
	hasValue bool
	cachedAt time.Time
	expires  time.Time
	mutex    sync.RWMutex
}

// NewCache initializes a new cache with an empty value.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Set sets a new value in the cache with an expiration time.
func (c *Cache[T]) Set(value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.value = value
	c.hasValue = true
	c.cachedAt = time.Now()
	c.expires = time.Now().Add(duration)
}

// Get retrieves the cached value if it has not expired.
func (c *Cache[T]) Get() (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.hasValue || time.Now().After(c.expires) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Stale retrieves the last stored value even when expired.
func (c *Cache[T]) Stale() (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.hasValue {
		var zero T
		return zero, false
	}
	return c.value, true
}

// CachedAt returns the time the current value was stored.
func (c *Cache[T]) CachedAt() (time.Time, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.cachedAt, c.hasValue
}

// Clear removes the cached value.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero T
	c.value = zero
	c.hasValue = false
	c.expires = time.Time{}
}
