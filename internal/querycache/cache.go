// Package querycache caches keyed data-source queries with in-flight
// de-duplication, a freshness window and tag-based invalidation.
package querycache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// ListID is the tag id conventionally used for "every list of this type".
const ListID = "LIST"

// Tag labels cached data so that mutations can invalidate it. A tag with
// an empty ID matches every tag of its Type when invalidating.
type Tag struct {
	Type string
	ID   string
}

func (t Tag) matches(other Tag) bool {
	return t.Type == other.Type && (t.ID == "" || t.ID == other.ID)
}

// Status is the state of a cache key.
type Status int

// Key states.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// Result is the outcome of a query.
type Result[T any] struct {
	Data      T
	IsLoading bool
	IsError   bool
	Err       error
	FromCache bool
}

// Config configures a Cache.
type Config struct {
	// TTL is how long a result stays fresh. Zero keeps results until invalidated.
	TTL time.Duration

	// Registerer receives the cache counters. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// Namespace prefixes metric names (default: "shading").
	Namespace string

	Logger *slog.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

type entry struct {
	value   any
	tags    []Tag
	expires time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	loading  map[string]int
	gen      uint64
	typeGens map[string]uint64

	flight  singleflight.Group
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics
}

// New creates a cache.
func New(cfg Config) *Cache {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "shading"
	}
	return &Cache{
		entries:  make(map[string]*entry),
		loading:  make(map[string]int),
		typeGens: make(map[string]uint64),
		ttl:      cfg.TTL,
		now:      cfg.Now,
		logger:   cfg.Logger,
		metrics:  newMetrics(cfg.Registerer, cfg.Namespace),
	}
}

// Query returns the fresh cached value for key or runs fetch. Concurrent
// queries for the same key share one fetch. Errors are returned in the
// result and never cached. tags labels the fetched value and may be nil.
//
// The shared fetch does not inherit cancellation from any one caller. A
// caller whose ctx ends stops waiting and gets ctx.Err(); the fetch keeps
// running for the others and still fills the cache.
func Query[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error), tags func(T) []Tag) Result[T] {
	if v, ok := c.lookup(key); ok {
		c.metrics.hits.Inc()
		data, _ := v.(T)
		return Result[T]{Data: data, FromCache: true}
	}
	c.metrics.misses.Inc()

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		start := c.begin(key)
		defer c.end(key)

		c.metrics.fetches.Inc()
		data, err := fetch(fetchCtx)
		if err != nil {
			c.metrics.errors.Inc()
			return nil, err
		}
		var t []Tag
		if tags != nil {
			t = tags(data)
		}
		c.store(key, data, t, start)
		return data, nil
	})

	select {
	case <-ctx.Done():
		c.logger.Debug("query abandoned", "key", key, "error", ctx.Err())
		return Result[T]{IsError: true, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			c.logger.Debug("query failed", "key", key, "shared", res.Shared, "error", res.Err)
			return Result[T]{IsError: true, Err: res.Err}
		}
		data, _ := res.Val.(T)
		return Result[T]{Data: data}
	}
}

// Peek returns the fresh cached value for key without fetching.
func Peek[T any](c *Cache, key string) (T, bool) {
	v, ok := c.lookup(key)
	if !ok {
		var zero T
		return zero, false
	}
	data, ok := v.(T)
	return data, ok
}

// Invalidate drops every entry carrying a tag matched by tags and returns
// how many were dropped. Fetches in flight for a matched type are not cached.
func (c *Cache) Invalidate(tags ...Tag) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for _, t := range tags {
		c.typeGens[t.Type] = c.gen
	}

	removed := 0
	for key, e := range c.entries {
		if matchesAny(tags, e.tags) {
			delete(c.entries, key)
			removed++
		}
	}
	c.metrics.invalidations.Add(float64(removed))
	c.logger.Debug("cache invalidated", "tags", tags, "removed", removed)
	return removed
}

// Status reports whether key is loading, cached or unknown.
func (c *Cache) Status(key string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading[key] > 0 {
		return StatusLoading
	}
	if e, ok := c.entries[key]; ok && !c.expired(e) {
		return StatusReady
	}
	return StatusIdle
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[key]++
	return c.gen
}

func (c *Cache) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading[key]--; c.loading[key] <= 0 {
		delete(c.loading, key)
	}
}

func (c *Cache) store(key string, value any, tags []Tag, start uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range tags {
		if c.typeGens[t.Type] > start {
			c.logger.Debug("dropping result invalidated while in flight", "key", key)
			return
		}
	}

	e := &entry{value: value, tags: tags}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[key] = e
}

func (c *Cache) expired(e *entry) bool {
	return !e.expires.IsZero() && !c.now().Before(e.expires)
}

func matchesAny(pattern, tags []Tag) bool {
	for _, p := range pattern {
		for _, t := range tags {
			if p.matches(t) {
				return true
			}
		}
	}
	return false
}
