package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rvanwijk/caseview/internal/model"
)

// MemoryCache keeps rendered trees in process memory, the first layer
// consulted on a render request. Entries are stored as decoded trees, so a
// hit costs no re-parsing. Rendered trees are immutable once built; entries
// are shared, not copied.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a rendered tree from the memory cache
func (c *MemoryCache) Get(key string) (*model.RenderedNode, bool) {
	value, found := c.cache.Get(key)
	if !found {
		return nil, false
	}

	tree, ok := value.(*model.RenderedNode)
	if !ok {
		c.cache.Delete(key)
		return nil, false
	}
	return tree, true
}

// Set stores a rendered tree under the given key
func (c *MemoryCache) Set(key string, tree *model.RenderedNode, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, tree, ttl)
	return nil
}

// Delete removes a rendered tree from the memory cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all entries from the memory cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
