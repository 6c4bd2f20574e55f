package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// StatusInfo describes the content directory and its index.
type StatusInfo struct {
	ContentDir string    `json:"content_dir"`
	Posts      int       `json:"posts"`
	Malformed  []string  `json:"malformed,omitempty"`
	Sorted     int       `json:"sorted"`
	Tags       int       `json:"tags"`
	Generation string    `json:"generation"`
	BuiltAt    time.Time `json:"built_at"`
	IndexValid bool      `json:"index_valid"`
	Cache      CacheInfo `json:"cache"`
}

// CacheInfo mirrors memo.Stats for display.
type CacheInfo struct {
	Len       int    `json:"len"`
	Size      int    `json:"size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// StatusRenderer displays index status.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, styles Styles) *StatusRenderer {
	return &StatusRenderer{out: out, styles: styles}
}

// Render writes status as aligned text.
func (r *StatusRenderer) Render(info StatusInfo) error {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Label.Render(fmt.Sprintf("%-12s", label+":")), value)
	}

	fmt.Fprintf(&b, "%s\n", r.styles.Header.Render("Index status"))
	line("Content", info.ContentDir)
	line("Posts", fmt.Sprintf("%d (%d dated)", info.Posts, info.Sorted))
	if len(info.Malformed) > 0 {
		line("Malformed", r.styles.Warning.Render(strings.Join(info.Malformed, ", ")))
	}
	line("Tags", fmt.Sprintf("%d", info.Tags))
	line("Generation", r.styles.Dim.Render(info.Generation))
	line("Built", formatTime(info.BuiltAt))
	if info.IndexValid {
		line("Index", r.styles.Success.Render("fresh"))
	} else {
		line("Index", r.styles.Warning.Render("stale"))
	}
	line("Cache", fmt.Sprintf("%d/%d entries, %d hits, %d misses, %d evictions",
		info.Cache.Len, info.Cache.Size, info.Cache.Hits, info.Cache.Misses, info.Cache.Evictions))

	_, err := io.WriteString(r.out, r.styles.Panel.Render(strings.TrimSuffix(b.String(), "\n"))+"\n")
	return err
}

// RenderJSON writes status as indented JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// formatTime formats t relative to now for recent times.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
