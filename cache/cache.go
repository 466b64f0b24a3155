// Package cache keeps decoded list results per entity type so repeated page
// loads skip the database. Entries are dropped whenever the entity changes.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "portfolio:"

type Cache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger

	mu          sync.Mutex
	generations map[events.Entity]uint64
}

// New returns a cache over store. A zero ttl keeps entries until invalidated.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:       store,
		ttl:         ttl,
		logger:      log.With().Str("component", "cache").Logger(),
		generations: make(map[events.Entity]uint64),
	}
}

func key(entity events.Entity, variant string) string {
	return keyPrefix + string(entity) + ":" + variant
}

func (c *Cache) generation(entity events.Entity) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[entity]
}

// Load returns the cached value for entity/variant or calls fetch to fill it.
// Concurrent misses for the same key share one fetch. Fetch errors are
// returned as-is and never cached. A nil cache always calls fetch.
func Load[T any](ctx context.Context, c *Cache, entity events.Entity, variant string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}

	k := key(entity, variant)
	if raw, ok, err := c.store.Get(ctx, k); err != nil {
		metrics.RecordCacheLookup(string(entity), "error")
		c.logger.Warn().Err(err).Str("key", k).Msg("cache read failed, loading from database")
	} else if ok {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			metrics.RecordCacheLookup(string(entity), "hit")
			return value, nil
		}
		c.logger.Warn().Str("key", k).Msg("discarding undecodable cache entry")
	}
	metrics.RecordCacheLookup(string(entity), "miss")

	gen := c.generation(entity)
	// The shared fetch must outlive any one caller; each caller still stops
	// waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k+"@"+strconv.FormatUint(gen, 10), func() (any, error) {
		value, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(value); err == nil {
			c.storeIfCurrent(shared, entity, gen, k, raw)
		}
		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// storeIfCurrent writes raw unless entity changed since gen was read. The
// check and the write happen under the same lock Invalidate takes, so an
// invalidation either skips this write or deletes it afterwards.
func (c *Cache) storeIfCurrent(ctx context.Context, entity events.Entity, gen uint64, k string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[entity] != gen {
		return
	}
	if err := c.store.Set(ctx, k, raw, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", k).Msg("cache write failed")
	}
}

// Invalidate drops every cached list of entity.
func (c *Cache) Invalidate(ctx context.Context, entity events.Entity) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.generations[entity]++
	c.mu.Unlock()

	if err := c.store.DeletePrefix(ctx, keyPrefix+string(entity)+":"); err != nil {
		c.logger.Error().Err(err).Str("entity", string(entity)).Msg("cache invalidation failed")
		return
	}
	metrics.RecordCacheInvalidation(string(entity))
}

// InvalidateAll drops every entity's entries. A shared store may still hold
// lists written by a previous process, whose generations this one never saw.
func (c *Cache) InvalidateAll(ctx context.Context) {
	for _, entity := range events.All {
		c.Invalidate(ctx, entity)
	}
}

// Subscribe invalidates on every committed write published to bus.
func (c *Cache) Subscribe(bus *events.Bus) (unsubscribe func()) {
	return bus.Subscribe(func(e events.EntityChanged) {
		c.Invalidate(context.Background(), e.Entity)
	})
}
