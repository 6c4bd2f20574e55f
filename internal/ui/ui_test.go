package ui

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chilitreat/postindex/internal/telemetry"
)

func TestIsTTY_NonFileWriters(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestIsTTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.False(t, IsTTY(f))
	assert.False(t, ColorEnabled(f))
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}

func TestDetectCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, DetectCI())
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"all zero", []float64{0, 0}, "▁▁"},
		{"scaled to max", []float64{0, 7, 14}, "▁▄█"},
		{"negative clamps", []float64{-3, 1}, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.values))
		})
	}
}

func TestStatusRenderer_Text(t *testing.T) {
	// Given: a stale index with a malformed post
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, NoColorStyles())

	// When: rendering
	err := r.Render(StatusInfo{
		ContentDir: "posts",
		Posts:      3,
		Sorted:     2,
		Malformed:  []string{"broken"},
		Tags:       4,
		Generation: "01HX",
		BuiltAt:    time.Now(),
		Cache:      CacheInfo{Len: 5, Size: 500, Hits: 7, Misses: 5},
	})

	// Then: every field is shown
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Index status")
	assert.Contains(t, out, "3 (2 dated)")
	assert.Contains(t, out, "broken")
	assert.Contains(t, out, "stale")
	assert.Contains(t, out, "just now")
	assert.Contains(t, out, "5/500 entries, 7 hits, 5 misses, 0 evictions")
}

func TestStatusRenderer_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, NoColorStyles())

	require.NoError(t, r.RenderJSON(StatusInfo{Posts: 1, IndexValid: true}))

	assert.Contains(t, buf.String(), `"index_valid": true`)
	assert.NotContains(t, buf.String(), "malformed")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "never", formatTime(time.Time{}))
	assert.Equal(t, "1 minute ago", formatTime(time.Now().Add(-90*time.Second)))
	assert.Equal(t, "3 hours ago", formatTime(time.Now().Add(-3*time.Hour-time.Minute)))
	old := time.Date(2020, 5, 6, 7, 8, 0, 0, time.Local)
	assert.Equal(t, "2020-05-06 07:08", formatTime(old))
}

func TestWatchRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewWatchRenderer(buf, NoColorStyles())
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

	ok := telemetry.RefreshEvent{At: at, Posts: 3, Tags: 2, Rebuilt: true, Duration: time.Millisecond}
	r.Refresh(ok, []telemetry.RefreshEvent{ok})
	r.Refresh(telemetry.RefreshEvent{At: at, Err: "disk gone"}, nil)

	out := buf.String()
	assert.Contains(t, out, "03:04:05 rebuilt   3 posts, 2 tags in 1ms █")
	assert.Contains(t, out, "03:04:05 refresh failed disk gone")
}
