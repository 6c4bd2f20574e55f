package query

import (
	"log/slog"
	"sort"

	"github.com/chilitreat/postindex/internal/content"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/memo"
)

// Tags returns the canonical tags of p, memoized on the raw tag value.
// A nil post has no tags.
func (e *Engine) Tags(p *content.Post) []string {
	if p == nil {
		return []string{}
	}
	key, ok := tagsKey(p.Tags)
	if !ok {
		return hashtag.Parse(p.Tags)
	}
	return memo.Do(e.cache, key, func() []string {
		return hashtag.Parse(p.Tags)
	})
}

// tagsKey keys a raw tag field by its string content. Non-string list
// elements are left out since Parse drops them anyway. Shapes that always
// parse to nothing are not worth caching.
func tagsKey(raw any) (memo.Key, bool) {
	switch v := raw.(type) {
	case string:
		return memo.NewKey("parseTags", "s", v), true
	case []string:
		return memo.NewKey("parseTags", append([]string{"l"}, v...)...), true
	case []any:
		parts := make([]string, 0, len(v)+1)
		parts = append(parts, "l")
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return memo.NewKey("parseTags", parts...), true
	default:
		return "", false
	}
}

// FilterByTag returns the posts of c carrying rawTag. A post matches when one
// of its canonical tags equals the normalized query or shares its alias
// class. An empty collection or a tag that normalizes to "" yields an empty
// collection. Nil posts are skipped.
func (e *Engine) FilterByTag(c content.Collection, rawTag string) content.Collection {
	out := make(content.Collection)
	query := hashtag.Normalize(rawTag)
	if len(c) == 0 || query == "" {
		return out
	}

	for id, p := range c {
		if p == nil {
			slog.Debug("skipping post without frontmatter", slog.String("id", id))
			continue
		}
		for _, tag := range e.Tags(p) {
			if e.aliases.Match(tag, query) {
				out[id] = p
				break
			}
		}
	}
	return out
}

// AllTags returns every distinct canonical tag in c, sorted. Nil posts are
// skipped. The result is memoized by the id set of c.
func (e *Engine) AllTags(c content.Collection) []string {
	if len(c) == 0 {
		return []string{}
	}
	return memo.Do(e.cache, collectionKey("allTags", c), func() []string {
		return e.allTags(c)
	})
}

func (e *Engine) allTags(c content.Collection) []string {
	seen := make(map[string]struct{})
	for id, p := range c {
		if p == nil {
			slog.Debug("skipping post without frontmatter", slog.String("id", id))
			continue
		}
		for _, tag := range e.Tags(p) {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
