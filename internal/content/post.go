// Package content defines posts and post collections, and loads them from
// Markdown files with YAML frontmatter.
package content

import (
	"sort"
	"strings"
)

// Post is one content item as described by its frontmatter.
type Post struct {
	ID        string `yaml:"-" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Author    string `yaml:"author" json:"author"`
	CreatedAt string `yaml:"created_at" json:"created_at"`
	Emoji     string `yaml:"emoji" json:"emoji"`

	// Tags holds the raw hashtags field exactly as loaded: nil, a
	// comma-joined string, or a list. Use hashtag.Parse to read it.
	Tags any `yaml:"hashtags" json:"hashtags,omitempty"`
}

// WellFormed reports whether p can take part in chronological ordering:
// it must have a non-blank title and creation date.
func (p *Post) WellFormed() bool {
	return p != nil &&
		strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.CreatedAt) != ""
}

// Collection maps post ids to posts. A nil *Post marks a post whose
// frontmatter is missing; it is kept so lookups by id still see it.
type Collection map[string]*Post

// SortedIDs returns the collection's ids in ascending order.
func (c Collection) SortedIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entry is an (id, post) pair in an ordered result.
type Entry struct {
	ID   string `json:"id"`
	Post *Post  `json:"post"`
}

// Neighbor is the short form of an adjacent post used for navigation links.
type Neighbor struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Neighbors holds the chronologically adjacent posts. Previous is the newer
// post and Next the older one; either is nil at the ends of the timeline.
type Neighbors struct {
	Previous *Neighbor `json:"previous,omitempty"`
	Next     *Neighbor `json:"next,omitempty"`
}

// IsZero reports whether neither neighbor is set.
func (n Neighbors) IsZero() bool {
	return n.Previous == nil && n.Next == nil
}

// PostWithNeighbors is an ordered entry augmented with its neighbors.
type PostWithNeighbors struct {
	ID   string `json:"id"`
	Post *Post  `json:"post"`
	Neighbors
}

// NeighborOf builds the navigation descriptor for e, or nil when e has no
// title.
func NeighborOf(e Entry) *Neighbor {
	if e.Post == nil || e.Post.Title == "" {
		return nil
	}
	return &Neighbor{ID: e.ID, Title: e.Post.Title}
}

// NeighborsAt returns the neighbors of sorted[i] in a newest-first list.
func NeighborsAt(sorted []Entry, i int) Neighbors {
	var n Neighbors
	if i < 0 || i >= len(sorted) {
		return n
	}
	if i > 0 {
		n.Previous = NeighborOf(sorted[i-1])
	}
	if i < len(sorted)-1 {
		n.Next = NeighborOf(sorted[i+1])
	}
	return n
}
