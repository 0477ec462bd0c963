package cache

import (
	"context"
	"time"

	"github.com/trovehq/trove/internal/entity"
	"github.com/trovehq/trove/internal/log"
	"github.com/trovehq/trove/internal/pubsub"
)

// Loader produces a fresh universal entity for a URN on cache miss.
type Loader func(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error)

// EntityCache is a read-through cache of universal entity projections keyed
// by URN. Lifecycle events on the bus invalidate entries, so a mutation is
// always followed by a fresh projection on the next read.
type EntityCache struct {
	cache Manager[string, entity.UniversalEntity]
	load  Loader
	ttl   time.Duration
	subs  []pubsub.Subscription
	bus   *pubsub.Bus
}

// NewEntityCache wires a read-through cache over the loader and subscribes
// to entity lifecycle events for invalidation.
func NewEntityCache(bus *pubsub.Bus, load Loader, ttl time.Duration) *EntityCache {
	c := &EntityCache{
		cache: NewInMemoryManager[string, entity.UniversalEntity]("entity", ttl, DefaultCleanupInterval),
		load:  load,
		ttl:   ttl,
		bus:   bus,
	}
	if bus != nil {
		for _, name := range []pubsub.EventName{pubsub.EntityCreated, pubsub.EntityUpdated, pubsub.EntityDeleted} {
			c.subs = append(c.subs, bus.On(name, c.invalidate))
		}
	}
	return c
}

// Get returns the cached projection for urn, loading it on a miss.
func (c *EntityCache) Get(ctx context.Context, urn entity.URN) (entity.UniversalEntity, error) {
	if value, ok := c.cache.Get(ctx, string(urn)); ok {
		return value, nil
	}

	value, err := c.load(ctx, urn)
	if err != nil {
		return entity.UniversalEntity{}, err
	}

	c.cache.Set(ctx, string(urn), value, c.ttl)

	return value, nil
}

// Flush drops every cached projection.
func (c *EntityCache) Flush(ctx context.Context) error {
	return c.cache.Flush(ctx)
}

// Close detaches the cache from the bus.
func (c *EntityCache) Close() {
	if c.bus == nil {
		return
	}
	for _, sub := range c.subs {
		c.bus.Off(sub)
	}
}

func (c *EntityCache) invalidate(name pubsub.EventName, payload any) {
	ev, ok := payload.(pubsub.EntityEvent)
	if !ok {
		return
	}
	log.Debug(log.CatCache, "invalidating entity", "event", string(name), "urn", ev.URN)
	_ = c.cache.Delete(context.Background(), ev.URN)
}
