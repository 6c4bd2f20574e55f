// Package query answers tag and chronology questions about a post
// collection: which posts carry a tag, which tags exist, how posts order by
// date and which posts neighbor a given one.
//
// Every operation is total. Malformed input yields an empty result and a
// log line, never an error or panic. Results derived from a collection are
// memoized in a memo.Cache keyed by the collection's id set, so callers must
// clear the cache whenever post contents change under unchanged ids.
//
// Returned slices and maps may be shared with the cache and must not be
// modified.
package query

import (
	"github.com/chilitreat/postindex/internal/content"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/memo"
)

// Engine runs queries against post collections.
// Safe for concurrent use.
type Engine struct {
	cache   *memo.Cache
	aliases hashtag.Aliases
}

// Option configures an Engine.
type Option func(*Engine)

// WithAliases sets the tag alias table used by FilterByTag.
// Default: hashtag.DefaultAliases().
func WithAliases(a hashtag.Aliases) Option {
	return func(e *Engine) {
		e.aliases = a
	}
}

// New creates an engine memoizing into cache. A nil cache disables
// memoization.
func New(cache *memo.Cache, opts ...Option) *Engine {
	e := &Engine{
		cache:   cache,
		aliases: hashtag.DefaultAliases(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the engine's memo cache, possibly nil.
func (e *Engine) Cache() *memo.Cache {
	return e.cache
}

// Aliases returns the engine's alias table.
func (e *Engine) Aliases() hashtag.Aliases {
	return e.aliases
}

// collectionKey keys a result that depends only on the id set of c.
func collectionKey(namespace string, c content.Collection, extra ...string) memo.Key {
	ids := c.SortedIDs()
	parts := make([]string, 0, len(extra)+len(ids))
	parts = append(parts, extra...)
	parts = append(parts, ids...)
	return memo.NewKey(namespace, parts...)
}
