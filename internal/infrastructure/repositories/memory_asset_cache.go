package repositories

import (
	"context"
	"sync"
	"time"

	domainrepos "fitting-room/internal/domain/repositories"
	"fitting-room/internal/domain/valueobjects"
)

type memoryEntry struct {
	image     *valueobjects.ImagePayload
	expiresAt time.Time
}

// MemoryAssetCache keeps garment images in process memory.
type MemoryAssetCache struct {
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

func NewMemoryAssetCache(ttl time.Duration) *MemoryAssetCache {
	return &MemoryAssetCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryAssetCache) Get(ctx context.Context, key string) (*valueobjects.ImagePayload, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, domainrepos.ErrCacheMiss
	}

	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, domainrepos.ErrCacheMiss
	}

	return entry.image, nil
}

func (c *MemoryAssetCache) Set(ctx context.Context, key string, image *valueobjects.ImagePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		image:     image,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}
