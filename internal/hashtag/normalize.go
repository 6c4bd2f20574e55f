package hashtag

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest canonical tag, in code points, accepted by IsValid.
const MaxLength = 50

// Unicode blocks kept by Normalize in addition to [a-z0-9].
const (
	hiraganaFirst = '\u3040'
	hiraganaLast  = '\u309f'
	katakanaFirst = '\u30a0'
	katakanaLast  = '\u30ff'
	cjkFirst      = '\u4e00'
	cjkLast       = '\u9faf'
)

// Normalize returns the canonical form of a raw tag: lowercased, trimmed and
// stripped of every rune outside [a-z0-9], Hiragana, Katakana and CJK.
// Returns "" when nothing usable remains.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	lower := strings.TrimSpace(strings.ToLower(raw))

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isCanonicalRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeValue normalizes v if it is a string. Any other value, nil
// included, yields "".
func NormalizeValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Normalize(s)
}

// IsValid reports whether raw normalizes to a non-empty tag of at most
// MaxLength code points.
func IsValid(raw string) bool {
	n := Normalize(raw)
	return n != "" && utf8.RuneCountInString(n) <= MaxLength
}

// ToURLSegment percent-encodes the canonical form of raw for use as a single
// path segment, e.g. in /hashtag/{segment}. Returns "" when raw has no
// canonical form.
func ToURLSegment(raw string) string {
	n := Normalize(raw)
	if n == "" {
		return ""
	}
	return url.PathEscape(n)
}

func isCanonicalRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= hiraganaFirst && r <= hiraganaLast:
		return true
	case r >= katakanaFirst && r <= katakanaLast:
		return true
	case r >= cjkFirst && r <= cjkLast:
		return true
	default:
		return false
	}
}
