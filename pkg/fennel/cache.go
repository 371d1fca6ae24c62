// cache.go - bounded LRU cache of compiled patterns
//
// Compilation is idempotent per (source, flags) key, so the runtime memoizes
// it. The cache is owned by a Runtime instance, never package-global, so
// independent runtimes and tests stay isolated.

package fennel

import (
	"container/list"
	"sync"
)

type cacheEntry struct {
	key     string
	pattern *Pattern
}

type patternCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

func newPatternCache(capacity int) *patternCache {
	return &patternCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *patternCache) get(key string) (*Pattern, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).pattern, true
}

func (c *patternCache) put(key string, p *Pattern) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).pattern = p
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, pattern: p})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *patternCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *patternCache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}
