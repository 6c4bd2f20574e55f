package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationToBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want DurationBucket
	}{
		{500 * time.Microsecond, BucketP1},
		{time.Millisecond, BucketP10},
		{25 * time.Millisecond, BucketP50},
		{99 * time.Millisecond, BucketP100},
		{time.Second, BucketSlow},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DurationToBucket(tt.d))
		})
	}
}

func TestRingBuffer_Wraps(t *testing.T) {
	// Given: a buffer of three
	b := NewRingBuffer[int](3)

	// When: adding five items
	for i := 1; i <= 5; i++ {
		b.Add(i)
	}

	// Then: the newest three remain, oldest first
	assert.Equal(t, []int{3, 4, 5}, b.Items())
	assert.Equal(t, 3, b.Len())
}

func TestRingBuffer_PartiallyFilled(t *testing.T) {
	b := NewRingBuffer[string](0)
	assert.Empty(t, b.Items())

	b.Add("a")
	assert.Equal(t, []string{"a"}, b.Items())
}

func TestRefreshLog(t *testing.T) {
	// Given: a log keeping two events
	l := NewRefreshLog(2)

	// When: recording a rebuild, a no-op and a failure
	l.Record(RefreshEvent{Generation: "g1", Posts: 3, Rebuilt: true, Duration: 2 * time.Millisecond})
	l.Record(RefreshEvent{Generation: "g1", Posts: 3})
	l.Record(RefreshEvent{Rebuilt: true, Err: "load failed", Duration: time.Second})

	// Then: totals cover all three, history keeps the last two
	s := l.Snapshot()
	assert.EqualValues(t, 3, s.Total)
	assert.EqualValues(t, 2, s.Rebuilds)
	assert.EqualValues(t, 1, s.Failures)
	assert.EqualValues(t, 1, s.Durations[BucketSlow])
	assert.EqualValues(t, 1, s.Durations[BucketP10])
	require.Len(t, s.Recent, 2)
	assert.Equal(t, "load failed", s.Recent[1].Err)
	assert.False(t, s.LastModified.IsZero())
	assert.InDelta(t, 2.0/3.0, s.RebuildRate(), 1e-9)
}

func TestRefreshSnapshot_EmptyRate(t *testing.T) {
	assert.Zero(t, NewRefreshLog(1).Snapshot().RebuildRate())
}
