// internal/services/catalog_cache.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tgmarket/market-backend/internal/repository"
)

// CatalogEntry is the slim product view the fuzzy matcher iterates over.
type CatalogEntry struct {
	ID             uuid.UUID
	NormalizedName string
	Grade          string
}

// CatalogCache holds a TTL snapshot of the active catalog so fuzzy matching
// does not hit the database once per line. Moderation actions invalidate it
// explicitly; otherwise new products become visible within the TTL.
type CatalogCache struct {
	products repository.ProductRepository
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	entries  []CatalogEntry
	loadedAt time.Time
}

func NewCatalogCache(products repository.ProductRepository, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogCache{
		products: products,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Snapshot returns the cached catalog, reloading it when stale. The slice
// is shared; callers must not mutate it.
func (c *CatalogCache) Snapshot(ctx context.Context) ([]CatalogEntry, error) {
	c.mu.RLock()
	if !c.loadedAt.IsZero() && c.now().Sub(c.loadedAt) < c.ttl {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have reloaded while we waited for the lock.
	if !c.loadedAt.IsZero() && c.now().Sub(c.loadedAt) < c.ttl {
		return c.entries, nil
	}

	products, err := c.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, CatalogEntry{
			ID:             p.ID,
			NormalizedName: p.NormalizedName,
			Grade:          p.Grade,
		})
	}
	c.entries = entries
	c.loadedAt = c.now()
	return entries, nil
}

// Invalidate forces a reload on the next Snapshot call.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}
