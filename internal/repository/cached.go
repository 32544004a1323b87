package repository

import (
	"time"

	"github.com/betterthansis/unisis/internal/cache"
)

// cached is the read-through cache shared by every entity repository. Entries are keyed by
// the row's primary key.
type cached[V any] struct {
	cache *cache.Cache[int64, V]
	// dependents cache entries keyed by the same id
	dependents []invalidator
	// cascades are emptied completely when a row is deleted
	cascades []invalidator
}

func newCached[V any](ttl time.Duration) cached[V] {
	return cached[V]{cache: cache.New[int64, V](ttl)}
}

// Invalidate drops the ids here and in every dependent cache.
func (c *cached[V]) Invalidate(ids ...int64) {
	c.cache.Delete(ids...)
	invalidate(c.dependents, ids...)
}

// InvalidateAll empties this cache and its dependents.
func (c *cached[V]) InvalidateAll() {
	c.cache.Clear()
	invalidateAll(c.dependents)
}

// Purge removes expired entries and returns how many went.
func (c *cached[V]) Purge() int {
	return c.cache.Purge()
}

func (c *cached[V]) deleted(id int64) {
	c.Invalidate(id)
	invalidateAll(c.cascades)
}

// wholesale adapts a cache keyed by something other than the invalidated id: any
// invalidation empties it.
type wholesale struct {
	invalidator
}

func (w wholesale) Invalidate(...int64) {
	w.InvalidateAll()
}
