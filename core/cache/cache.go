// Package cache wraps the provider chain with a TTL snapshot cache so that
// overlapping monitoring cycles and API reads do not hammer upstream AIS
// services.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pietroscik/marinetraffic/core/logger"
	"github.com/pietroscik/marinetraffic/core/metrics"
	"github.com/pietroscik/marinetraffic/core/model"
)

// Fetcher is the upstream the cache protects, implemented by provider.Chain.
type Fetcher interface {
	Fetch(ctx context.Context, port model.Port) (model.Snapshot, error)
	SourceMode() string
}

type entry struct {
	snap     model.Snapshot
	storedAt time.Time
}

// SnapshotCache caches chain results per (port, source mode) key. At most
// one upstream fetch is in flight per key: concurrent callers share the
// outcome instead of triggering duplicate calls.
type SnapshotCache struct {
	fetcher    Fetcher
	ttl        time.Duration
	serveStale bool
	sink       metrics.MetricsSink
	log        logger.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]entry

	now func() time.Time
}

// New builds a cache in front of the given fetcher.
func New(fetcher Fetcher, cfg Config, sink metrics.MetricsSink, log logger.Logger) *SnapshotCache {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &SnapshotCache{
		fetcher:    fetcher,
		ttl:        time.Duration(cfg.TTLMinutes) * time.Minute,
		serveStale: cfg.ServeStale,
		sink:       sink,
		log:        log,
		entries:    make(map[string]entry),
		now:        time.Now,
	}
}

// Get returns the snapshot for the port, from cache when fresh, otherwise
// from the chain. A failed fetch never mutates the cache; with ServeStale
// enabled an expired entry is returned instead of the error, flagged Stale.
func (c *SnapshotCache) Get(ctx context.Context, port model.Port) (model.Snapshot, error) {
	key := port.Name + "|" + c.fetcher.SourceMode()

	if snap, ok := c.fresh(key); ok {
		c.record(port.Name, metrics.CacheHit)
		return snap, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Another caller may have refreshed the entry while this one
		// was queued behind the singleflight lock.
		if snap, ok := c.fresh(key); ok {
			c.record(port.Name, metrics.CacheHit)
			return snap, nil
		}
		snap, err := c.fetcher.Fetch(ctx, port)
		if err != nil {
			if old, ok := c.any(key); ok && c.serveStale {
				old.Stale = true
				c.record(port.Name, metrics.CacheStale)
				c.log.Warnf("chain failed for port %s, serving stale snapshot from %s: %v",
					port.Name, old.FetchedAt.Format(time.RFC3339), err)
				return old, nil
			}
			return model.Snapshot{}, err
		}
		c.store(key, snap)
		c.record(port.Name, metrics.CacheMiss)
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return model.Snapshot{}, res.Err
		}
		return res.Val.(model.Snapshot), nil
	case <-ctx.Done():
		return model.Snapshot{}, ctx.Err()
	}
}

func (c *SnapshotCache) fresh(key string) (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return model.Snapshot{}, false
	}
	return e.snap, true
}

func (c *SnapshotCache) any(key string) (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.snap, ok
}

func (c *SnapshotCache) store(key string, snap model.Snapshot) {
	c.mu.Lock()
	c.entries[key] = entry{snap: snap, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *SnapshotCache) record(port, outcome string) {
	if r, ok := c.sink.(metrics.CacheRecorder); ok {
		_ = r.RecordCache(metrics.CacheEvent{Port: port, Outcome: outcome, Time: c.now()})
	}
}
