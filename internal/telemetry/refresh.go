package telemetry

import (
	"sync"
	"time"
)

// DurationBucket is a coarse latency class for refresh durations.
type DurationBucket string

const (
	BucketP1   DurationBucket = "p1"   // <1ms
	BucketP10  DurationBucket = "p10"  // 1-10ms
	BucketP50  DurationBucket = "p50"  // 10-50ms
	BucketP100 DurationBucket = "p100" // 50-100ms
	BucketSlow DurationBucket = "slow" // >=100ms
)

// DurationToBucket converts a duration to its bucket.
func DurationToBucket(d time.Duration) DurationBucket {
	switch {
	case d < time.Millisecond:
		return BucketP1
	case d < 10*time.Millisecond:
		return BucketP10
	case d < 50*time.Millisecond:
		return BucketP50
	case d < 100*time.Millisecond:
		return BucketP100
	default:
		return BucketSlow
	}
}

// RingBuffer is a fixed-capacity FIFO buffer.
type RingBuffer[T any] struct {
	mu       sync.RWMutex
	items    []T
	head     int // next write position
	size     int
	capacity int
}

// NewRingBuffer creates a buffer holding at most capacity items.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &RingBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends item, overwriting the oldest one when full.
func (b *RingBuffer[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.head] = item
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// Items returns the buffered items oldest first.
func (b *RingBuffer[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]T, b.size)
	if b.size < b.capacity {
		copy(result, b.items[:b.size])
	} else {
		// Full: the oldest item sits at head
		copy(result, b.items[b.head:])
		copy(result[b.capacity-b.head:], b.items[:b.head])
	}
	return result
}

// Len returns the number of buffered items.
func (b *RingBuffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// RefreshEvent describes one reaction to a content change.
type RefreshEvent struct {
	At         time.Time     `json:"at"`
	Generation string        `json:"generation"`
	Posts      int           `json:"posts"`
	Tags       int           `json:"tags"`
	Rebuilt    bool          `json:"rebuilt"`
	Duration   time.Duration `json:"duration"`
	Err        string        `json:"error,omitempty"`
}

// RefreshSnapshot summarizes the refresh history.
type RefreshSnapshot struct {
	Total        int64                    `json:"total"`
	Rebuilds     int64                    `json:"rebuilds"`
	Failures     int64                    `json:"failures"`
	Durations    map[DurationBucket]int64 `json:"durations"`
	Recent       []RefreshEvent           `json:"recent"`
	Since        time.Time                `json:"since"`
	LastModified time.Time                `json:"last_modified"`
}

// RebuildRate returns the share of refreshes that rebuilt the index.
func (s RefreshSnapshot) RebuildRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Rebuilds) / float64(s.Total)
}

// RefreshLog records refresh events in memory.
// Safe for concurrent use.
type RefreshLog struct {
	mu        sync.Mutex
	recent    *RingBuffer[RefreshEvent]
	durations map[DurationBucket]int64
	total     int64
	rebuilds  int64
	failures  int64
	since     time.Time
	last      time.Time
}

// NewRefreshLog keeps the last capacity events.
func NewRefreshLog(capacity int) *RefreshLog {
	return &RefreshLog{
		recent:    NewRingBuffer[RefreshEvent](capacity),
		durations: make(map[DurationBucket]int64),
		since:     time.Now(),
	}
}

// Record adds an event.
func (l *RefreshLog) Record(ev RefreshEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.total++
	if ev.Rebuilt {
		l.rebuilds++
	}
	if ev.Err != "" {
		l.failures++
	}
	l.durations[DurationToBucket(ev.Duration)]++
	l.last = ev.At
	l.recent.Add(ev)
}

// Snapshot returns the current summary.
func (l *RefreshLog) Snapshot() RefreshSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	durations := make(map[DurationBucket]int64, len(l.durations))
	for k, v := range l.durations {
		durations[k] = v
	}
	return RefreshSnapshot{
		Total:        l.total,
		Rebuilds:     l.rebuilds,
		Failures:     l.failures,
		Durations:    durations,
		Recent:       l.recent.Items(),
		Since:        l.since,
		LastModified: l.last,
	}
}
