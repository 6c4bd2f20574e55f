package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chilitreat/postindex/internal/telemetry"
)

// historyLines is the number of past refreshes listed in the live view.
const historyLines = 8

// TUIRenderer shows a live view of the watch loop using bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     WatchConfig
	program *tea.Program
	model   *watchModel
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a live renderer. It fails when the output is not
// a terminal.
func NewTUIRenderer(cfg WatchConfig) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	model := newWatchModel(cfg.ContentDir, cfg.OnQuit)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:   cfg,
		model: model,
		done:  make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	ctx, r.cancel = context.WithCancel(ctx)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
	return nil
}

// Notice implements Renderer.
func (r *TUIRenderer) Notice(icon, msg string) {
	r.send(noticeMsg{icon: icon, text: msg})
}

// Refresh implements Renderer.
func (r *TUIRenderer) Refresh(ev telemetry.RefreshEvent, recent []telemetry.RefreshEvent) {
	r.send(refreshMsg{event: ev, recent: recent})
}

func (r *TUIRenderer) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		return nil
	}
	r.program.Quit()

	// An unresponsive program must not keep the process alive.
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
	}
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

type noticeMsg struct {
	icon string
	text string
}

type refreshMsg struct {
	event  telemetry.RefreshEvent
	recent []telemetry.RefreshEvent
}

// watchModel is the bubbletea model of the live view.
type watchModel struct {
	dir      string
	onQuit   func()
	styles   Styles
	spinner  spinner.Model
	notices  []string
	last     *telemetry.RefreshEvent
	recent   []telemetry.RefreshEvent
	failures int
	width    int
	quitting bool
}

func newWatchModel(dir string, onQuit func()) *watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	return &watchModel{
		dir:     dir,
		onQuit:  onQuit,
		styles:  DefaultStyles(),
		spinner: s,
		width:   80,
	}
}

// Init implements tea.Model.
func (m *watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case noticeMsg:
		m.notices = append(m.notices, msg.icon+" "+msg.text)

	case refreshMsg:
		ev := msg.event
		m.last = &ev
		m.recent = msg.recent
		if ev.Err != "" {
			m.failures++
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *watchModel) View() string {
	if m.quitting {
		return "Stopped.\n"
	}

	width := max(m.width-4, 40)
	sections := []string{m.renderState()}
	if len(m.notices) > 0 {
		sections = append(sections, m.styles.Dim.Render(strings.Join(m.notices, "\n")))
	}
	sections = append(sections, m.divider(width))

	if len(m.recent) > 0 {
		spark := Sparkline(durations(m.recent))
		sections = append(sections,
			m.styles.Tag.Render(spark)+" "+m.styles.Dim.Render("refresh time ─"),
			m.divider(width),
			m.renderHistory())
	} else {
		sections = append(sections, m.styles.Dim.Render("No refreshes yet."))
	}

	title := "postindex watch"
	if m.dir != "" {
		title += " • " + m.dir
	}
	panel := m.styles.Panel.Width(width).Render(strings.Join(sections, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, m.styles.Header.Render(title), panel) +
		"\n" + m.renderStatusBar()
}

func (m *watchModel) renderState() string {
	state := m.spinner.View() + " Watching for changes"
	if m.last == nil || m.last.Err != "" {
		return state
	}
	return fmt.Sprintf("%s  %s",
		state,
		m.styles.Label.Render(fmt.Sprintf("%d posts, %d tags", m.last.Posts, m.last.Tags)))
}

// renderHistory lists recent refreshes, newest first.
func (m *watchModel) renderHistory() string {
	n := min(len(m.recent), historyLines)
	lines := make([]string, 0, n)
	for i := len(m.recent) - 1; i >= len(m.recent)-n; i-- {
		lines = append(lines, refreshLine(m.styles, m.recent[i]))
	}
	return strings.Join(lines, "\n")
}

func (m *watchModel) divider(width int) string {
	return m.styles.Dim.Render(strings.Repeat("─", width-2))
}

func (m *watchModel) renderStatusBar() string {
	hint := m.styles.Dim.Render("q to quit")
	if m.failures == 0 {
		return hint
	}
	return m.styles.Error.Render(fmt.Sprintf("✗ %d failed", m.failures)) +
		m.styles.Dim.Render("  │  ") + hint
}
