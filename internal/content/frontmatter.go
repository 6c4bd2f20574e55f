package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Display defaults for frontmatter fields that are not needed for indexing.
const (
	DefaultEmoji  = "📝"
	DefaultAuthor = "Unknown"

	maxEmojiRunes = 10
)

var (
	scriptPattern = regexp.MustCompile(`(?is)<script\b[^<]*(?:<[^<]*)*?</script>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// Sanitize strips markup from the human-readable fields of p, trims them and
// fills display defaults. Title and CreatedAt are never defaulted: a post
// without them stays ill-formed.
func Sanitize(p *Post) {
	if p == nil {
		return
	}
	p.Title = stripMarkup(p.Title)
	p.Author = stripMarkup(p.Author)
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if p.Emoji == "" || utf8.RuneCountInString(p.Emoji) > maxEmojiRunes {
		p.Emoji = DefaultEmoji
	}
}

// IsComplete reports whether p has every required frontmatter field.
func IsComplete(p *Post) bool {
	return p.WellFormed() && strings.TrimSpace(p.Author) != ""
}

func stripMarkup(s string) string {
	s = scriptPattern.ReplaceAllString(s, "")
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
