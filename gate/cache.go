package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver keeps each user's grants for ttl. Lookup errors are not
// stored. Entries are per process; Refresh forces a new lookup.
type CachedResolver[U comparable] struct {
	inner GrantResolver[U]
	ttl   time.Duration

	mu      sync.Mutex
	entries map[U]cachedGrants
}

type cachedGrants struct {
	grants Grants
	until  time.Time
}

func NewCachedResolver[U comparable](inner GrantResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{inner: inner, ttl: ttl, entries: map[U]cachedGrants{}}
}

func (c *CachedResolver[U]) Resolve(ctx context.Context, user U) (Grants, error) {
	c.mu.Lock()
	e, ok := c.entries[user]
	c.mu.Unlock()
	if ok && time.Now().Before(e.until) {
		return e.grants, nil
	}
	return c.Refresh(ctx, user)
}

// Refresh resolves user through the wrapped resolver and replaces the cached
// entry. On error the entry is dropped.
func (c *CachedResolver[U]) Refresh(ctx context.Context, user U) (Grants, error) {
	g, err := c.inner.Resolve(ctx, user)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		delete(c.entries, user)
		return nil, err
	}
	c.entries[user] = cachedGrants{grants: g, until: time.Now().Add(c.ttl)}
	return g, nil
}

// Invalidate drops user's entry so the next Resolve looks it up again.
func (c *CachedResolver[U]) Invalidate(user U) {
	c.mu.Lock()
	delete(c.entries, user)
	c.mu.Unlock()
}
