package query

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/chilitreat/postindex/internal/content"
	"github.com/chilitreat/postindex/internal/memo"
)

// dateLayouts are tried in order when parsing CreatedAt.
var dateLayouts = []string{
	"2006/1/2",
	"2006/1/2 15:04",
	"2006/1/2 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses a CreatedAt literal in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type datedEntry struct {
	content.Entry
	at time.Time
	ok bool
}

// compareDated orders newest first. A parseable date sorts before an
// unparseable one; remaining ties fall back to id order.
func compareDated(a, b datedEntry) int {
	switch {
	case a.ok && b.ok:
		if c := b.at.Compare(a.at); c != 0 {
			return c
		}
	case a.ok:
		return -1
	case b.ok:
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// SortByDate returns the well-formed posts of c, newest first. Posts whose
// date cannot be parsed sort after every dated post. The result is memoized
// by the id set of c.
func (e *Engine) SortByDate(c content.Collection) []content.Entry {
	if len(c) == 0 {
		return []content.Entry{}
	}
	return memo.Do(e.cache, collectionKey("sortByDate", c), func() []content.Entry {
		return sortByDate(c)
	})
}

func sortByDate(c content.Collection) []content.Entry {
	dated := make([]datedEntry, 0, len(c))
	for id, p := range c {
		if !p.WellFormed() {
			slog.Debug("excluding ill-formed post from timeline", slog.String("id", id))
			continue
		}
		at, ok := ParseDate(p.CreatedAt)
		if !ok {
			slog.Debug("unparseable post date",
				slog.String("id", id),
				slog.String("created_at", p.CreatedAt))
		}
		dated = append(dated, datedEntry{
			Entry: content.Entry{ID: id, Post: p},
			at:    at,
			ok:    ok,
		})
	}
	slices.SortFunc(dated, compareDated)

	entries := make([]content.Entry, len(dated))
	for i, d := range dated {
		entries[i] = d.Entry
	}
	return entries
}

// AdjacentOf returns the chronological neighbors of id in c. Previous is the
// newer post and Next the older one. An unknown id or empty collection
// yields the zero value. The result is memoized by id and the id set of c.
func (e *Engine) AdjacentOf(id string, c content.Collection) content.Neighbors {
	if id == "" || len(c) == 0 {
		return content.Neighbors{}
	}
	return memo.Do(e.cache, collectionKey("adjacentOf", c, id), func() content.Neighbors {
		sorted := e.SortByDate(c)
		for i, entry := range sorted {
			if entry.ID == id {
				return content.NeighborsAt(sorted, i)
			}
		}
		return content.Neighbors{}
	})
}

// AllWithNeighbors returns SortByDate(c) with each entry's neighbors.
func (e *Engine) AllWithNeighbors(c content.Collection) []content.PostWithNeighbors {
	sorted := e.SortByDate(c)
	out := make([]content.PostWithNeighbors, len(sorted))
	for i, entry := range sorted {
		out[i] = content.PostWithNeighbors{
			ID:        entry.ID,
			Post:      entry.Post,
			Neighbors: content.NeighborsAt(sorted, i),
		}
	}
	return out
}

// IsValidID reports whether c holds id with a non-empty title.
func IsValidID(id string, c content.Collection) bool {
	p, ok := c[id]
	return ok && p != nil && p.Title != ""
}
