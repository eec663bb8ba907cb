package islet

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// GeometryCache memoizes generator output by parameter identity. Lookups are
// safe from loader goroutines; concurrent misses for the same key share one
// build.
type GeometryCache[K comparable] struct {
	build func(K) *Geometry

	mu    sync.RWMutex
	items map[K]*Geometry
	group singleflight.Group
}

// NewGeometryCache returns a cache backed by build.
func NewGeometryCache[K comparable](build func(K) *Geometry) *GeometryCache[K] {
	return &GeometryCache[K]{build: build, items: make(map[K]*Geometry)}
}

// Get returns the cached geometry for key, building it on first use.
func (c *GeometryCache[K]) Get(key K) *Geometry {
	c.mu.RLock()
	g, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return g
	}
	v, _, _ := c.group.Do(fmt.Sprintf("%#v", key), func() (any, error) {
		c.mu.RLock()
		g, ok := c.items[key]
		c.mu.RUnlock()
		if ok {
			return g, nil
		}
		g = c.build(key)
		c.mu.Lock()
		c.items[key] = g
		c.mu.Unlock()
		return g, nil
	})
	return v.(*Geometry)
}

// Len returns the number of cached entries.
func (c *GeometryCache[K]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Purge drops every cached entry. Geometry already handed out stays valid.
func (c *GeometryCache[K]) Purge() {
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}
