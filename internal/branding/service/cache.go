package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/helio-platform/brandgate/internal/domainproof"
)

// snapshotEntry holds the latest verification result for one tenant's
// domain. The domain is part of the key: a snapshot taken for a previous
// domain never serves a reconfigured one.
type snapshotEntry struct {
	domain    string
	result    domainproof.Result
	expiresAt time.Time
}

func (e *snapshotEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// snapshotCache is a thread-safe TTL cache of verification results, owned
// by the service and invalidated explicitly on configuration changes. It
// keeps dashboard polling from re-probing tenant DNS on every request.
type snapshotCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*snapshotEntry
	ttl     time.Duration
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{
		entries: make(map[uuid.UUID]*snapshotEntry),
		ttl:     ttl,
	}
}

// get returns the cached result for the tenant, but only if it was taken
// for the same domain and has not expired.
func (c *snapshotCache) get(tenantID uuid.UUID, domain string) (domainproof.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[tenantID]
	if !ok || e.expired() || e.domain != domain {
		return domainproof.Result{}, false
	}
	return e.result, true
}

func (c *snapshotCache) set(tenantID uuid.UUID, domain string, res domainproof.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = &snapshotEntry{
		domain:    domain,
		result:    res,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// invalidate drops the tenant's snapshot. Called on reconfiguration and
// on disable.
func (c *snapshotCache) invalidate(tenantID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
}

// evict removes all expired entries and returns the number removed.
func (c *snapshotCache) evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if e.expired() {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
