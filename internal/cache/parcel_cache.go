package cache

import (
	"sync"

	"gitlab.com/courexa/edi-gateway/internal/metrics"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

// ParcelCache is a read-through cache for status queries, keyed by EDI
// reference. Values are copied in and out so callers never share a row.
type ParcelCache struct {
	mu    sync.RWMutex
	cache map[string]*repository.Parcel
}

func NewParcelCache() *ParcelCache {
	return &ParcelCache{
		cache: make(map[string]*repository.Parcel),
	}
}

func (c *ParcelCache) Get(ediReference string) (*repository.Parcel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, found := c.cache[ediReference]
	if !found {
		return nil, false
	}
	cp := *p
	return &cp, true
}

func (c *ParcelCache) Set(p *repository.Parcel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	c.cache[p.EDIReference] = &cp
	metrics.ParcelCacheItems.Set(float64(len(c.cache)))
}

// Invalidate drops the cached row after a transition so the next status read
// goes to storage.
func (c *ParcelCache) Invalidate(ediReference string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[ediReference]; found {
		delete(c.cache, ediReference)
		metrics.ParcelCacheItems.Set(float64(len(c.cache)))
	}
}
