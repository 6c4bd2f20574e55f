package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PollingWatcher detects changes by rescanning the content directory on an
// interval. Only files directly inside the directory are considered.
type PollingWatcher struct {
	interval time.Duration
	accept   func(name string, op Operation) (Operation, bool)

	mu        sync.Mutex
	fileState map[string]fileSnapshot
	events    chan FileEvent
	errors    chan error
	stopCh    chan struct{}
	stopped   bool
	rootPath  string
}

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// NewPollingWatcher creates a polling watcher. Files are filtered the same
// way as in HybridWatcher using opts.
func NewPollingWatcher(opts Options) *PollingWatcher {
	opts = opts.WithDefaults()
	return &PollingWatcher{
		interval:  opts.PollInterval,
		accept:    opts.classify,
		fileState: make(map[string]fileSnapshot),
		events:    make(chan FileEvent, 100),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}
}

// Start scans path once to establish a baseline, then polls until ctx is
// done or Stop is called.
func (p *PollingWatcher) Start(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	p.mu.Lock()
	p.rootPath = absPath
	state, err := p.scan()
	if err == nil {
		p.fileState = state
	}
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("perform initial scan: %w", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = p.Stop()
			return ctx.Err()
		case <-p.stopCh:
			return nil
		case <-ticker.C:
			if err := p.detectChanges(); err != nil {
				select {
				case p.errors <- err:
				default:
				}
			}
		}
	}
}

// Stop stops polling and closes the channels. Safe to call multiple times.
func (p *PollingWatcher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil
	}
	p.stopped = true
	close(p.stopCh)
	close(p.events)
	close(p.errors)
	return nil
}

// Events returns the channel of file events.
func (p *PollingWatcher) Events() <-chan FileEvent {
	return p.events
}

// Errors returns the channel of scan errors.
func (p *PollingWatcher) Errors() <-chan error {
	return p.errors
}

// scan records the state of every regular file in the root.
// Must be called with lock held.
func (p *PollingWatcher) scan() (map[string]fileSnapshot, error) {
	entries, err := os.ReadDir(p.rootPath)
	if err != nil {
		return nil, err
	}

	state := make(map[string]fileSnapshot, len(entries))
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		state[de.Name()] = fileSnapshot{modTime: info.ModTime(), size: info.Size()}
	}
	return state, nil
}

// detectChanges diffs the directory against the previous scan.
func (p *PollingWatcher) detectChanges() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.scan()
	if err != nil {
		return fmt.Errorf("scan directory for changes: %w", err)
	}

	for name, snap := range current {
		prev, existed := p.fileState[name]
		switch {
		case !existed:
			p.emitEvent(name, OpCreate)
		case prev != snap:
			p.emitEvent(name, OpModify)
		}
	}
	for name := range p.fileState {
		if _, exists := current[name]; !exists {
			p.emitEvent(name, OpDelete)
		}
	}

	p.fileState = current
	return nil
}

// emitEvent sends an accepted event. Must be called with lock held.
func (p *PollingWatcher) emitEvent(name string, op Operation) {
	if p.stopped {
		return
	}
	op, ok := p.accept(name, op)
	if !ok {
		return
	}

	select {
	case p.events <- FileEvent{Path: name, Operation: op, Timestamp: time.Now()}:
	default:
		slog.Warn("polling watcher buffer full, dropping event",
			slog.String("path", name),
			slog.String("op", op.String()))
	}
}
