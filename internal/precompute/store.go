package precompute

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chilitreat/postindex/internal/content"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/query"
)

// BuildObserver receives build outcomes, e.g. to export them as metrics.
type BuildObserver interface {
	IndexBuilt(d time.Duration, posts, tags int)
	IndexBuildFailed(d time.Duration)
}

// Store owns at most one Index. Reads see either the previous or the next
// index in full, never a partial one.
// Safe for concurrent use.
type Store struct {
	engine   *query.Engine
	current  atomic.Pointer[Index]
	observer BuildObserver

	// beforeBuild runs at the start of every build; tests use it to
	// inject failures.
	beforeBuild func(full content.Collection)
}

// Option configures a Store.
type Option func(*Store)

// WithObserver reports build outcomes to o.
func WithObserver(o BuildObserver) Option {
	return func(s *Store) {
		s.observer = o
	}
}

// New creates an empty store computing through engine.
func New(engine *query.Engine, opts ...Option) *Store {
	s := &Store{engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the held index, or nil before the first build.
func (s *Store) Current() *Index {
	return s.current.Load()
}

// Build replaces the held index with one built from full. If building
// fails the store holds the empty index instead.
func (s *Store) Build(full content.Collection) {
	start := time.Now()
	idx, err := s.build(full)
	elapsed := time.Since(start)

	if err != nil {
		slog.Error("index build failed, serving empty index",
			slog.Int("posts", len(full)),
			slog.String("error", err.Error()))
		idx = emptyIndex()
		if s.observer != nil {
			s.observer.IndexBuildFailed(elapsed)
		}
	} else {
		slog.Debug("index built",
			slog.String("generation", idx.Generation.String()),
			slog.Int("posts", len(idx.SortedPosts)),
			slog.Int("tags", len(idx.AllTags)),
			slog.Duration("duration", elapsed))
		if s.observer != nil {
			s.observer.IndexBuilt(elapsed, len(idx.SortedPosts), len(idx.AllTags))
		}
	}
	s.current.Store(idx)
}

func (s *Store) build(full content.Collection) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.New(apperrors.ErrCodeIndexBuild, fmt.Sprintf("panic during index build: %v", r), nil)
		}
	}()
	if s.beforeBuild != nil {
		s.beforeBuild(full)
	}

	sorted := s.engine.SortByDate(full)
	tags := s.engine.AllTags(full)
	ids := full.SortedIDs()

	neighbors := make(map[string]content.Neighbors, len(sorted))
	for i, entry := range sorted {
		neighbors[entry.ID] = content.NeighborsAt(sorted, i)
	}

	byTag := make(map[string][]string, len(tags))
	for _, id := range ids {
		seen := make(map[string]struct{})
		for _, tag := range s.engine.Tags(full[id]) {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			byTag[tag] = append(byTag[tag], id)
		}
	}

	return &Index{
		SortedPosts: sorted,
		AllTags:     tags,
		NeighborsOf: neighbors,
		PostsByTag:  byTag,
		SourceIDs:   ids,
		Generation:  ulid.Make(),
		BuiltAt:     time.Now(),
	}, nil
}

// IsValid reports whether an index exists and was built from a collection
// with exactly the ids of full.
func (s *Store) IsValid(full content.Collection) bool {
	return s.current.Load().Matches(full)
}

// SortedFast returns the indexed sorted list when the index matches full,
// otherwise computes it directly. It never rebuilds.
func (s *Store) SortedFast(full content.Collection) []content.Entry {
	if idx := s.current.Load(); idx.Matches(full) {
		return idx.SortedPosts
	}
	return s.engine.SortByDate(full)
}

// AllTagsFast returns the indexed tag list, or an empty list before the
// first build. It is not validated against any collection; call
// RefreshIfNeeded first when freshness matters.
func (s *Store) AllTagsFast() []string {
	if idx := s.current.Load(); idx != nil {
		return idx.AllTags
	}
	return []string{}
}

// NeighborsFast returns the indexed neighbors of id.
func (s *Store) NeighborsFast(id string) content.Neighbors {
	if idx := s.current.Load(); idx != nil {
		return idx.NeighborsOf[id]
	}
	return content.Neighbors{}
}

// ByTagFast returns the posts of full indexed under rawTag or one of its
// aliases. Ids are resolved against full, so posts removed since the build
// are left out.
func (s *Store) ByTagFast(rawTag string, full content.Collection) content.Collection {
	out := make(content.Collection)
	idx := s.current.Load()
	if idx == nil {
		return out
	}

	for _, tag := range s.engine.Aliases().Expand(hashtag.Normalize(rawTag)) {
		for _, id := range idx.PostsByTag[tag] {
			if p, ok := full[id]; ok {
				out[id] = p
			}
		}
	}
	return out
}

// RefreshIfNeeded rebuilds the index from full unless it already matches.
// It reports whether a rebuild happened.
func (s *Store) RefreshIfNeeded(full content.Collection) bool {
	if s.IsValid(full) {
		return false
	}
	s.Build(full)
	return true
}
