// Package precompute holds a prebuilt index over a full post collection so
// the hot queries (sorted list, tag list, neighbors, posts by tag) are map
// lookups instead of recomputation.
//
// The index is only meaningful against the exact collection it was built
// from. Every method taking a collection expects the complete current
// snapshot, never a delta: staleness is detected by comparing id sets.
package precompute

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chilitreat/postindex/internal/content"
)

// Index is an immutable snapshot of derived structures. It is replaced
// wholesale on rebuild and must not be modified by readers.
type Index struct {
	// SortedPosts holds well-formed posts, newest first.
	SortedPosts []content.Entry
	// AllTags holds every canonical tag of the input, sorted.
	AllTags []string
	// NeighborsOf maps each sorted post id to its neighbors.
	NeighborsOf map[string]content.Neighbors
	// PostsByTag maps each tag to the ids carrying it, in sorted-id order.
	PostsByTag map[string][]string
	// SourceIDs is the sorted id set of the build input.
	SourceIDs []string

	Generation ulid.ULID
	BuiltAt    time.Time
}

func emptyIndex() *Index {
	return &Index{
		SortedPosts: []content.Entry{},
		AllTags:     []string{},
		NeighborsOf: map[string]content.Neighbors{},
		PostsByTag:  map[string][]string{},
		SourceIDs:   []string{},
		Generation:  ulid.Make(),
		BuiltAt:     time.Now(),
	}
}

// Matches reports whether the index was built from a collection with
// exactly the ids of full.
func (idx *Index) Matches(full content.Collection) bool {
	if idx == nil || len(full) != len(idx.SourceIDs) {
		return false
	}
	for _, id := range idx.SourceIDs {
		if _, ok := full[id]; !ok {
			return false
		}
	}
	return true
}
