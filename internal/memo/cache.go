package memo

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the default number of live entries.
const DefaultSize = 500

// Observer receives cache events, e.g. to export them as metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	CacheHit()
	CacheMiss()
	CacheEvict()
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Size      int
}

// Cache is a bounded LRU store of memoized results.
// Safe for concurrent use.
type Cache struct {
	entries  *lru.Cache[Key, any]
	group    singleflight.Group
	size     int
	observer Observer

	// generation advances on Clear. Results computed under an older
	// generation are returned to their callers but never stored.
	mu         sync.RWMutex
	generation atomic.Uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver reports hits, misses and evictions to o.
func WithObserver(o Observer) Option {
	return func(c *Cache) {
		c.observer = o
	}
}

// New creates a cache holding at most size entries.
// A size <= 0 selects DefaultSize.
func New(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, any](size)
	if err != nil {
		return nil, fmt.Errorf("create memo cache: %w", err)
	}

	c := &Cache{
		entries: entries,
		size:    size,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(size int, opts ...Option) *Cache {
	c, err := New(size, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the value stored under key and marks it most recently used.
func (c *Cache) Get(key Key) (any, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hit()
	} else {
		c.miss()
	}
	return v, ok
}

// Add stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Add(key Key, value any) {
	if evicted := c.entries.Add(key, value); evicted {
		c.evictions.Add(1)
		if c.observer != nil {
			c.observer.CacheEvict()
		}
	}
}

// Clear removes every entry. Computations still running from before the
// call neither store their results nor share them with later callers.
// Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := c.entries.Len()
	c.generation.Add(1)
	c.entries.Purge()
	c.mu.Unlock()
	slog.Debug("memo cache cleared", slog.Int("entries", n))
}

// addIfCurrent stores value unless Clear ran since gen was read.
func (c *Cache) addIfCurrent(key Key, value any, gen uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.generation.Load() != gen {
		return
	}
	c.Add(key, value)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Size returns the capacity.
func (c *Cache) Size() int {
	return c.size
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.entries.Len(),
		Size:      c.size,
	}
}

func (c *Cache) hit() {
	c.hits.Add(1)
	if c.observer != nil {
		c.observer.CacheHit()
	}
}

func (c *Cache) miss() {
	c.misses.Add(1)
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}

// Do returns the result memoized under key, calling fn on a miss.
// Concurrent misses for the same key share a single call to fn. A nil cache
// calls fn directly.
func Do[T any](c *Cache, key Key, fn func() T) T {
	if c == nil {
		return fn()
	}
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
		slog.Warn("memo entry has unexpected type, recomputing", slog.String("key", string(key)))
	}

	gen := c.generation.Load()
	v, _, _ := c.group.Do(strconv.FormatUint(gen, 10)+":"+string(key), func() (any, error) {
		result := fn()
		c.addIfCurrent(key, result, gen)
		return result, nil
	})
	typed, _ := v.(T)
	return typed
}

// Memoize wraps a single-argument pure function. keyFn must map logically
// equal arguments to the same key.
func Memoize[A, R any](c *Cache, keyFn func(A) Key, fn func(A) R) func(A) R {
	return func(arg A) R {
		return Do(c, keyFn(arg), func() R { return fn(arg) })
	}
}
