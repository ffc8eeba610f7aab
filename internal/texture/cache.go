package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture name to a decoded RGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or
// undecodable; failures are cached too so a bad file is read only once.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	c.mu.Unlock()

	return img
}

// Failures returns the load errors seen so far, keyed by path.
func (c *Cache) Failures() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]error)
	for path, e := range c.items {
		if e.err != nil {
			out[path] = e.err
		}
	}
	return out
}
