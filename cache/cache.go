package cache

import (
	"sync"
	"time"
)

// Globalcache stores values by key with an optional expiration time.
type Globalcache[T any] struct {
	items     map[string]item[T]
	mu        sync.Mutex
	extension time.Duration
	now       func() time.Time
}

type item[T any] struct {
	expires int64
	value   T
}

// New creates a cache whose entries expire extension after they were set.
// An extension of 0 keeps entries for the life of the cache. Expired entries are
// dropped on access, there is no cleaning goroutine.
func New[T any](extension time.Duration) *Globalcache[T] {
	return &Globalcache[T]{
		items:     make(map[string]item[T], 100),
		extension: extension,
		now:       time.Now,
	}
}

// Get gets the value for the given key.
func (c *Globalcache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, exists := c.items[key]
	if !exists {
		var zero T
		return zero, false
	}
	if data.expires != 0 && c.now().UnixNano() > data.expires {
		delete(c.items, key)
		var zero T
		return zero, false
	}
	return data.value, true
}

// Set stores value under key, replacing any previous entry. Expired entries
// are dropped first.
func (c *Globalcache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expires int64
	if c.extension > 0 {
		now := c.now().UnixNano()
		c.clearexpired(now)
		expires = now + int64(c.extension)
	}
	c.items[key] = item[T]{expires: expires, value: value}
}

func (c *Globalcache[T]) clearexpired(now int64) {
	for key, data := range c.items {
		if data.expires != 0 && now > data.expires {
			delete(c.items, key)
		}
	}
}

// GetOrSet returns the cached value for key or stores the result of fn.
// Errors are returned and not cached.
func (c *Globalcache[T]) GetOrSet(key string, fn func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Len returns the number of stored entries, expired ones not yet dropped
// included.
func (c *Globalcache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
