package services

import (
	"context"
	"sync"
	"time"

	"fileweb/internal/models"
)

// UsageSource produces fresh volume usage figures
type UsageSource interface {
	ReadUsage(ctx context.Context) ([]models.VolumeUsage, error)
}

// UsageCache holds the last volume usage snapshot with a TTL.
// gopsutil walks every mount on each read, so repeated polling from the
// client is served from memory.
type UsageCache struct {
	mu        sync.RWMutex
	source    UsageSource
	usage     []models.VolumeUsage
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewUsageCache wraps source. A non-positive ttl disables caching.
func NewUsageCache(source UsageSource, ttl time.Duration) *UsageCache {
	return &UsageCache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// isValid checks if cache is still valid. Caller holds the lock.
func (c *UsageCache) isValid() bool {
	return c.usage != nil && c.now().Sub(c.fetchedAt) < c.ttl
}

// Get returns cached usage if valid, otherwise fetches fresh
func (c *UsageCache) Get(ctx context.Context) ([]models.VolumeUsage, error) {
	c.mu.RLock()
	if c.isValid() {
		defer c.mu.RUnlock()
		return c.usage, nil
	}
	c.mu.RUnlock()

	// Fetch fresh data
	usage, err := c.source.ReadUsage(ctx)
	if err != nil {
		return nil, err
	}

	// Update cache
	c.mu.Lock()
	c.usage = usage
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return usage, nil
}

// Clear drops the cached snapshot
func (c *UsageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage = nil
	c.fetchedAt = time.Time{}
}

// NotifyChanged invalidates the snapshot, since mutations change free space
func (c *UsageCache) NotifyChanged(models.ChangeEvent) {
	c.Clear()
}
