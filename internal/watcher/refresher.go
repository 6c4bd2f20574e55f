package watcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chilitreat/postindex/internal/content"
	"github.com/chilitreat/postindex/internal/memo"
	"github.com/chilitreat/postindex/internal/precompute"
	"github.com/chilitreat/postindex/internal/telemetry"
)

// LoadFunc returns the complete current post collection.
type LoadFunc func(ctx context.Context) (content.Collection, error)

// Refresher keeps a memo cache and index store consistent with the content
// directory. Safe for concurrent use.
type Refresher struct {
	load    LoadFunc
	cache   *memo.Cache
	store   *precompute.Store
	history *telemetry.RefreshLog
	notify  func(telemetry.RefreshEvent)

	mu         sync.RWMutex
	collection content.Collection
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithHistory records every refresh in l.
func WithHistory(l *telemetry.RefreshLog) RefresherOption {
	return func(r *Refresher) {
		r.history = l
	}
}

// WithOnRefresh calls fn after every refresh attempt, from the refreshing
// goroutine.
func WithOnRefresh(fn func(telemetry.RefreshEvent)) RefresherOption {
	return func(r *Refresher) {
		r.notify = fn
	}
}

// NewRefresher creates a refresher. cache may be nil.
func NewRefresher(load LoadFunc, cache *memo.Cache, store *precompute.Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		load:  load,
		cache: cache,
		store: store,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collection returns the last successfully loaded collection.
func (r *Refresher) Collection() content.Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collection
}

// Refresh reloads the collection, clears the memo cache and refreshes the
// store. The store is rebuilt when the id set changed, or unconditionally
// when force is set because post contents changed under the same ids.
// On load failure the previous collection and index stay in place.
func (r *Refresher) Refresh(ctx context.Context, force bool) (bool, error) {
	start := time.Now()
	c, err := r.load(ctx)
	if err != nil {
		r.record(telemetry.RefreshEvent{Duration: time.Since(start), Err: err.Error()})
		return false, err
	}

	r.mu.Lock()
	r.collection = c
	r.mu.Unlock()

	if r.cache != nil {
		r.cache.Clear()
	}

	rebuilt := true
	if force {
		r.store.Build(c)
	} else {
		rebuilt = r.store.RefreshIfNeeded(c)
	}

	ev := telemetry.RefreshEvent{
		Posts:    len(c),
		Rebuilt:  rebuilt,
		Duration: time.Since(start),
	}
	if idx := r.store.Current(); idx != nil {
		ev.Generation = idx.Generation.String()
		ev.Tags = len(idx.AllTags)
	}
	r.record(ev)

	slog.Info("content refreshed",
		slog.Int("posts", ev.Posts),
		slog.Int("tags", ev.Tags),
		slog.Bool("rebuilt", rebuilt),
		slog.String("generation", ev.Generation),
		slog.Duration("duration", ev.Duration))
	return rebuilt, nil
}

func (r *Refresher) record(ev telemetry.RefreshEvent) {
	ev.At = time.Now()
	if r.history != nil {
		r.history.Record(ev)
	}
	if r.notify != nil {
		r.notify(ev)
	}
}

// Run refreshes once per batch until batches closes or ctx is done. Load
// failures are logged and do not stop the loop.
func (r *Refresher) Run(ctx context.Context, batches <-chan []FileEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				return nil
			}
			r.handleBatch(ctx, batch)
		}
	}
}

// handleBatch refreshes once for a batch touching any post file. The
// rebuild is always forced: an edit saved by renaming a temp file over the
// post arrives as a create for an id the index already has.
func (r *Refresher) handleBatch(ctx context.Context, batch []FileEvent) {
	var posts bool
	for _, ev := range batch {
		if ev.Operation == OpConfigChange {
			slog.Warn("config file changed; restart watch to apply it",
				slog.String("path", ev.Path))
			continue
		}
		posts = true
	}
	if !posts {
		return
	}

	if _, err := r.Refresh(ctx, true); err != nil {
		slog.Error("refresh failed, keeping previous index",
			slog.Int("events", len(batch)),
			slog.String("error", err.Error()))
	}
}
