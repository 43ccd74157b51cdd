package proxy

import (
	"context"
	"sync"
)

// cache is a mutex-guarded get-or-fetch holder for a single fetched value.
// The lock is held across the fetch so concurrent callers coalesce into one
// request; invalidations queue behind an in-flight fetch, which preserves
// the "mutation clears before its request is sent" ordering.
type cache[T any] struct {
	name string

	mu  sync.Mutex
	val T
	ok  bool
}

// get returns the cached value, fetching and storing it on a miss.
func (c *cache[T]) get(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok {
		observeCache(c.name, "hit")
		return c.val, nil
	}
	observeCache(c.name, "miss")
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.val = v
	c.ok = true
	return v, nil
}

// invalidate drops the cached value so the next get re-fetches.
func (c *cache[T]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok {
		observeCache(c.name, "invalidate")
	}
	var zero T
	c.val = zero
	c.ok = false
}
