package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chilitreat/postindex/internal/telemetry"
)

// Renderer displays the progress of `postindex watch`.
type Renderer interface {
	// Start begins rendering. It must be called before Notice or Refresh.
	Start(ctx context.Context) error
	// Notice shows a one-off status message such as the watched directory.
	Notice(icon, msg string)
	// Refresh shows ev. recent is the refresh history, oldest first.
	Refresh(ev telemetry.RefreshEvent, recent []telemetry.RefreshEvent)
	// Stop ends rendering and restores the terminal.
	Stop() error
}

// WatchConfig configures NewRenderer.
type WatchConfig struct {
	Output     io.Writer
	Styles     Styles
	ContentDir string
	// ForcePlain selects the line renderer even on a terminal.
	ForcePlain bool
	// NoColor renders the live view without colors.
	NoColor bool
	// OnQuit is called when the user quits the live view.
	OnQuit func()
}

// NewRenderer returns the live terminal view for interactive terminals and
// the line renderer for pipes, CI and ForcePlain.
func NewRenderer(cfg WatchConfig) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewWatchRenderer(cfg.Output, cfg.Styles)
	}
	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewWatchRenderer(cfg.Output, cfg.Styles)
	}
	return tui
}

// WatchRenderer prints one line per refresh while watching, followed by a
// sparkline of recent refresh durations.
type WatchRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
}

// NewWatchRenderer creates a line renderer.
func NewWatchRenderer(out io.Writer, styles Styles) *WatchRenderer {
	return &WatchRenderer{out: out, styles: styles}
}

// Start implements Renderer.
func (r *WatchRenderer) Start(context.Context) error { return nil }

// Stop implements Renderer.
func (r *WatchRenderer) Stop() error { return nil }

// Notice implements Renderer.
func (r *WatchRenderer) Notice(icon, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, "%s %s\n", icon, msg)
}

// Refresh implements Renderer.
func (r *WatchRenderer) Refresh(ev telemetry.RefreshEvent, recent []telemetry.RefreshEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := refreshLine(r.styles, ev)
	if ev.Err == "" {
		line += " " + r.styles.Tag.Render(Sparkline(durations(recent)))
	}
	_, _ = fmt.Fprintln(r.out, line)
}

// refreshLine formats one refresh without the trailing sparkline.
func refreshLine(s Styles, ev telemetry.RefreshEvent) string {
	ts := s.Date.Render(ev.At.Format("15:04:05"))
	if ev.Err != "" {
		return fmt.Sprintf("%s %s %s", ts, s.Error.Render("refresh failed"), ev.Err)
	}

	verb := s.Dim.Render("unchanged")
	if ev.Rebuilt {
		verb = s.Success.Render("rebuilt")
	}
	return fmt.Sprintf("%s %-9s %d posts, %d tags in %s",
		ts, verb, ev.Posts, ev.Tags, ev.Duration.Round(10*time.Microsecond))
}

func durations(recent []telemetry.RefreshEvent) []float64 {
	out := make([]float64, len(recent))
	for i, e := range recent {
		out[i] = float64(e.Duration)
	}
	return out
}

var (
	_ Renderer = (*WatchRenderer)(nil)
	_ Renderer = (*TUIRenderer)(nil)
)
