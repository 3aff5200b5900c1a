// Package memcache backs the scoring caches with in-process TTL stores.
package memcache

import (
	"time"

	"myLeadMarket/business/features"
	"myLeadMarket/business/scoring"
	"myLeadMarket/domain"

	gocache "github.com/patrickmn/go-cache"
)

// ModelCache shares loaded model artifacts across scorers. Entries live
// slightly past the scorer's freshness window so expiry never races the
// freshness check.
type ModelCache struct {
	store *gocache.Cache
}

var _ scoring.ModelCache = (*ModelCache)(nil)

func NewModelCache(ttl time.Duration) *ModelCache {
	return &ModelCache{store: gocache.New(ttl, 10*time.Minute)}
}

func (c *ModelCache) Get(v domain.Vertical) (scoring.ModelEntry, bool) {
	raw, ok := c.store.Get(v.String())
	if !ok {
		return scoring.ModelEntry{}, false
	}
	entry, ok := raw.(scoring.ModelEntry)
	return entry, ok
}

func (c *ModelCache) Set(v domain.Vertical, entry scoring.ModelEntry) {
	c.store.Set(v.String(), entry, gocache.DefaultExpiration)
}

// TransformCache memoizes feature transforms by content hash. Keys are
// unbounded, so entries expire rather than accumulate.
type TransformCache struct {
	store *gocache.Cache
}

var _ features.TransformCache = (*TransformCache)(nil)

func NewTransformCache(ttl time.Duration) *TransformCache {
	return &TransformCache{store: gocache.New(ttl, 10*time.Minute)}
}

func (c *TransformCache) Get(key string) (features.CachedTransform, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return features.CachedTransform{}, false
	}
	cached, ok := raw.(features.CachedTransform)
	return cached, ok
}

func (c *TransformCache) Set(key string, value features.CachedTransform) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}
