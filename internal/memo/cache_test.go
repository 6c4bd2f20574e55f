package memo

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultSize(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, c.Size())
	assert.Equal(t, 500, DefaultSize)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	// Given: a cache of three entries
	c := MustNew(3)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// When: "a" is touched and a fourth entry is added
	_, ok := c.Get("a")
	require.True(t, ok)
	c.Add("d", 4)

	// Then: "b" was the least recently used and is gone
	_, ok = c.Get("b")
	assert.False(t, ok)
	for _, k := range []Key{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %s", k)
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCache_NeverExceedsCapacity(t *testing.T) {
	c := MustNew(DefaultSize)

	for i := 0; i < DefaultSize*2; i++ {
		Do(c, NewKey("n", fmt.Sprint(i)), func() int { return i })
	}

	assert.Equal(t, DefaultSize, c.Len())
	assert.Equal(t, uint64(DefaultSize), c.Stats().Evictions)
}

func TestDo_SameKeyReturnsIdenticalResult(t *testing.T) {
	// Given: a memoized computation returning a fresh slice each call
	c := MustNew(10)
	var calls int
	compute := func() []string {
		calls++
		return []string{"x", "y"}
	}
	key := NewKey("list", "a", "b")

	// When: called twice with the same key
	first := Do(c, key, compute)
	second := Do(c, key, compute)

	// Then: the same backing array is returned and fn ran once
	require.Len(t, second, 2)
	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, 1, calls)
}

func TestDo_ClearForcesRecompute(t *testing.T) {
	c := MustNew(10)
	var calls int
	compute := func() []int {
		calls++
		return []int{calls}
	}
	key := NewKey("counter")

	first := Do(c, key, compute)
	c.Clear()
	second := Do(c, key, compute)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{2}, second)
	assert.NotSame(t, &first[0], &second[0])
}

func TestDo_NilCacheComputesDirectly(t *testing.T) {
	got := Do(nil, NewKey("x"), func() string { return "v" })
	assert.Equal(t, "v", got)
}

func TestDo_ConcurrentMissesShareOneCall(t *testing.T) {
	// Given: a slow computation that blocks until released
	c := MustNew(10)
	var calls atomic.Int32
	release := make(chan struct{})
	key := NewKey("slow")
	const callers = 8

	// When: every caller misses before the first call finishes
	var wg sync.WaitGroup
	results := make([]*int, callers)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Do(c, key, func() *int {
				calls.Add(1)
				<-release
				v := 7
				return &v
			})
		}(i)
	}
	require.Eventually(t, func() bool {
		return c.Stats().Misses == callers
	}, 2*time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond) // let every caller reach the shared call
	close(release)
	wg.Wait()

	// Then: fn ran once and everyone got its result
	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, c.Len())
}

func TestDo_ClearDuringComputationDoesNotLeakStaleResult(t *testing.T) {
	// Given: a computation for key started before Clear
	c := MustNew(10)
	key := NewKey("post-list")
	started := make(chan struct{})
	release := make(chan struct{})
	staleDone := make(chan string, 1)
	go func() {
		staleDone <- Do(c, key, func() string {
			close(started)
			<-release
			return "stale"
		})
	}()
	<-started

	// When: the cache is cleared and the key is requested again
	c.Clear()
	fresh := Do(c, key, func() string { return "fresh" })
	close(release)
	stale := <-staleDone

	// Then: the later caller computed anew and the stale result was not stored
	assert.Equal(t, "fresh", fresh)
	assert.Equal(t, "stale", stale)
	v, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestDo_ClearWhileComputingStoresNothing(t *testing.T) {
	c := MustNew(10)
	key := NewKey("k")

	got := Do(c, key, func() int {
		c.Clear()
		return 1
	})

	assert.Equal(t, 1, got)
	assert.Equal(t, 0, c.Len())
}

func TestMemoize(t *testing.T) {
	c := MustNew(10)
	var calls int
	square := Memoize(c, func(n int) Key { return NewKey("square", fmt.Sprint(n)) }, func(n int) int {
		calls++
		return n * n
	})

	assert.Equal(t, 9, square(3))
	assert.Equal(t, 9, square(3))
	assert.Equal(t, 16, square(4))
	assert.Equal(t, 2, calls)
}

type countingObserver struct {
	hits, misses, evicts atomic.Int32
}

func (o *countingObserver) CacheHit()   { o.hits.Add(1) }
func (o *countingObserver) CacheMiss()  { o.misses.Add(1) }
func (o *countingObserver) CacheEvict() { o.evicts.Add(1) }

func TestCache_ReportsToObserver(t *testing.T) {
	obs := &countingObserver{}
	c := MustNew(1, WithObserver(obs))

	Do(c, NewKey("a"), func() int { return 1 })
	Do(c, NewKey("a"), func() int { return 1 })
	Do(c, NewKey("b"), func() int { return 2 })

	assert.Equal(t, int32(1), obs.hits.Load())
	assert.Equal(t, int32(2), obs.misses.Load())
	assert.Equal(t, int32(1), obs.evicts.Load())

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}
