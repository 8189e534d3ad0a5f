package cache

import (
	"time"

	"github.com/rvanwijk/caseview/internal/model"
)

// LayeredCache combines the memory and disk layers: memory answers repeat
// renders within a session, disk survives restarts.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory first, then disk, promoting disk hits to memory.
func (c *LayeredCache) Get(key string) (*model.RenderedNode, bool) {
	if tree, found := c.memory.Get(key); found {
		return tree, true
	}

	if tree, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, tree, 0) // Default TTL
		return tree, true
	}

	return nil, false
}

// Set stores a rendered tree in both layers
func (c *LayeredCache) Set(key string, tree *model.RenderedNode, ttl time.Duration) error {
	if err := c.memory.Set(key, tree, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, tree, ttl)
}

// Delete removes a rendered tree from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	_ = c.disk.Delete(key)
	return nil
}

// Clear removes all entries from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
