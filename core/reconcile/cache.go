package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedPlans is one memoized planning run.
type cachedPlans struct {
	plans []*Plan
	built time.Time
}

// PlanCache memoizes planning runs for a TTL. Concurrent misses for the same
// key share one build. A zero TTL disables caching.
type PlanCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*cachedPlans
	sf      singleflight.Group
	now     func() time.Time
}

// NewPlanCache creates a cache whose entries expire after ttl.
func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{
		ttl:     ttl,
		entries: make(map[string]*cachedPlans),
		now:     time.Now,
	}
}

func (c *PlanCache) fresh(key string) ([]*Plan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.ttl == 0 || c.now().Sub(entry.built) > c.ttl {
		return nil, false
	}
	return entry.plans, true
}

// GetOrBuild returns the cached plans for key, or builds and stores them.
func (c *PlanCache) GetOrBuild(ctx context.Context, key string, build func(ctx context.Context) ([]*Plan, error)) ([]*Plan, error) {
	if plans, ok := c.fresh(key); ok {
		return plans, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if plans, ok := c.fresh(key); ok {
			return plans, nil
		}

		plans, err := build(ctx)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = &cachedPlans{plans: plans, built: c.now()}
			c.mu.Unlock()
		}
		return plans, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]*Plan), nil
}

// Invalidate drops every cached entry.
func (c *PlanCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]*cachedPlans)
	c.mu.Unlock()
}
