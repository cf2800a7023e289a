package authz

import "sync"

// Cache memoizes built requirement lists by key. Reads are lock-free;
// a mutex serializes fills so a key is built once. Build errors are not
// cached, so a failed build is retried on the next request.
type Cache struct {
	entries sync.Map // string → []Requirement
	fillMu  sync.Mutex
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the requirements cached under key, building and caching
// them on first use.
func (c *Cache) Get(key string, build func() ([]Requirement, error)) ([]Requirement, error) {
	if v, ok := c.entries.Load(key); ok {
		return v.([]Requirement), nil
	}

	c.fillMu.Lock()
	defer c.fillMu.Unlock()

	// Another fill may have won the race.
	if v, ok := c.entries.Load(key); ok {
		return v.([]Requirement), nil
	}

	reqs, err := build()
	if err != nil {
		return nil, err
	}
	c.entries.Store(key, reqs)
	return reqs, nil
}

// Invalidate drops the entry for key, if any. Used when the
// requirements bound to a key change, e.g. after a manifest reload.
func (c *Cache) Invalidate(key string) {
	c.entries.Delete(key)
}

// Reset drops every cached entry.
func (c *Cache) Reset() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
