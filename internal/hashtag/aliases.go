package hashtag

import "sort"

// Aliases is an equivalence table over canonical tags. Tags in the same
// class match each other when filtering, in addition to exact equality.
//
// The zero value has no classes: Match degrades to plain equality.
type Aliases struct {
	classOf map[string]string // canonical tag -> class representative
	members map[string][]string
}

// DefaultAliasGroups reproduces the historical react/reactjs rule. Normalize
// maps "React.js" to "reactjs", which would otherwise miss posts tagged
// "react".
var DefaultAliasGroups = [][]string{
	{"react", "reactjs"},
}

// DefaultAliases returns the table built from DefaultAliasGroups.
func DefaultAliases() Aliases {
	return NewAliases(DefaultAliasGroups...)
}

// NewAliases builds a table from groups of raw tags. Members are normalized;
// groups sharing a member are merged. Groups that reduce to fewer than two
// distinct canonical tags are ignored.
func NewAliases(groups ...[]string) Aliases {
	parent := make(map[string]string)

	var find func(string) string
	find = func(t string) string {
		p, ok := parent[t]
		if !ok || p == t {
			return t
		}
		root := find(p)
		parent[t] = root
		return root
	}

	for _, group := range groups {
		var first string
		seen := make(map[string]struct{}, len(group))
		for _, raw := range group {
			tag := Normalize(raw)
			if tag == "" {
				continue
			}
			seen[tag] = struct{}{}
			if first == "" {
				first = tag
			}
		}
		if len(seen) < 2 {
			continue
		}
		for tag := range seen {
			if _, ok := parent[tag]; !ok {
				parent[tag] = tag
			}
		}
		if _, ok := parent[first]; !ok {
			parent[first] = first
		}
		for tag := range seen {
			ra, rb := find(first), find(tag)
			if ra == rb {
				continue
			}
			// Smallest tag wins so the representative is deterministic.
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	if len(parent) == 0 {
		return Aliases{}
	}

	a := Aliases{
		classOf: make(map[string]string, len(parent)),
		members: make(map[string][]string),
	}
	for tag := range parent {
		root := find(tag)
		a.classOf[tag] = root
		a.members[root] = append(a.members[root], tag)
	}
	for _, m := range a.members {
		sort.Strings(m)
	}
	return a
}

// Match reports whether the canonical tags tag and query are equal or in the
// same alias class. Empty tags never match.
func (a Aliases) Match(tag, query string) bool {
	if tag == "" || query == "" {
		return false
	}
	if tag == query {
		return true
	}
	ct, ok := a.classOf[tag]
	if !ok {
		return false
	}
	cq, ok := a.classOf[query]
	return ok && ct == cq
}

// Expand returns tag followed by every other member of its class, sorted.
// A tag without aliases expands to itself; "" expands to nothing.
func (a Aliases) Expand(tag string) []string {
	if tag == "" {
		return nil
	}
	root, ok := a.classOf[tag]
	if !ok {
		return []string{tag}
	}
	out := make([]string, 0, len(a.members[root]))
	out = append(out, tag)
	for _, m := range a.members[root] {
		if m != tag {
			out = append(out, m)
		}
	}
	return out
}

// Groups returns the alias classes, each sorted, ordered by representative.
func (a Aliases) Groups() [][]string {
	roots := make([]string, 0, len(a.members))
	for r := range a.members {
		roots = append(roots, r)
	}
	sort.Strings(roots)

	groups := make([][]string, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, append([]string(nil), a.members[r]...))
	}
	return groups
}
