package hashtag

import "strings"

// Parse converts a post's raw tag field into canonical tags.
//
// Accepted shapes:
//   - nil: no tags
//   - string: comma-separated list ("go, Web,  API")
//   - []string or []any: one tag per element; non-string elements are dropped
//
// Any other type yields an empty slice. Pieces that are blank or normalize
// to "" are dropped. Input order is preserved and duplicates are kept.
func Parse(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		return parseList(strings.Split(v, ","))
	case []string:
		return parseList(v)
	case []any:
		pieces := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				pieces = append(pieces, s)
			}
		}
		return parseList(pieces)
	default:
		return []string{}
	}
}

func parseList(pieces []string) []string {
	tags := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if tag := Normalize(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
