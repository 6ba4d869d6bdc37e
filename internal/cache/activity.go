package cache

import "sync"

// ActivityCache remembers the tick at which each player was last seen mining.
// Entries are never evicted individually; callers judge staleness against a
// window at query time and Reset the whole cache on world transitions.
type ActivityCache struct {
	mu       sync.RWMutex
	lastSeen map[string]int
}

// NewActivityCache creates an empty ActivityCache
func NewActivityCache() *ActivityCache {
	return &ActivityCache{
		lastSeen: make(map[string]int),
	}
}

// Record stores tick as the last active tick for name
func (c *ActivityCache) Record(name string, tick int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen[name] = tick
}

// Get returns the last active tick for name
func (c *ActivityCache) Get(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tick, ok := c.lastSeen[name]
	return tick, ok
}

// ActiveWithin reports whether name was recorded less than window ticks before tick.
func (c *ActivityCache) ActiveWithin(name string, tick, window int) bool {
	last, ok := c.Get(name)
	if !ok {
		return false
	}
	return tick-last < window
}

// Len returns the number of players in the cache
func (c *ActivityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lastSeen)
}

// Reset clears all entries
func (c *ActivityCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = make(map[string]int)
}
