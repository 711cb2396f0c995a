// Package cache is the read-through TTL cache in front of the remote HR API.
// Entries expire lazily: Get checks age, nothing evicts in the background.
// Collections are small and reads are infrequent, so unreclaimed expired
// entries are not a memory concern.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value      any
	insertedAt time.Time
}

type Cache struct {
	ttl time.Duration
	now func() time.Time // injectable for tests

	mu sync.Mutex
	m  map[string]entry

	group singleflight.Group
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),
	}
}

// NewWithClock is for tests that need to move time.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.m[key] = entry{value: value, insertedAt: c.now()}
	c.mu.Unlock()
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Do returns the cached value for key, or runs fill once to produce it while
// concurrent misses on the same key wait for that single call. fill decides
// whether its result is cacheable (e.g. fallback data may still be returned
// but not stored).
func (c *Cache) Do(key string, fill func() (value any, cacheIt bool, err error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		// re-check: another caller may have filled between Get and Do
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, cacheIt, err := fill()
		if err != nil {
			return nil, err
		}
		if cacheIt {
			c.Set(key, v)
		}
		return v, nil
	})
	return v, err
}
