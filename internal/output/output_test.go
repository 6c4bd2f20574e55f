package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chilitreat/postindex/internal/content"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/site"
	"github.com/chilitreat/postindex/internal/ui"
)

func newWriter(format Format) (*Writer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(buf, format, ui.NoColorStyles()), buf
}

func samplePosts() []content.PostWithNeighbors {
	newer := &content.Post{Title: "Newer", CreatedAt: "2024/2/1", Emoji: "🚀", Tags: "go, Web"}
	older := &content.Post{Title: "Older", CreatedAt: "2024/1/1", Emoji: "📝"}
	return []content.PostWithNeighbors{
		{ID: "newer", Post: newer, Neighbors: content.Neighbors{Next: &content.Neighbor{ID: "older", Title: "Older"}}},
		{ID: "older", Post: older, Neighbors: content.Neighbors{Previous: &content.Neighbor{ID: "newer", Title: "Newer"}}},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
}

func TestWriter_StatusSuppressedInJSON(t *testing.T) {
	// Given: a JSON writer
	w, buf := newWriter(FormatJSON)

	// When: printing status messages
	w.Success("done")
	w.Warning("careful")

	// Then: nothing pollutes stdout
	assert.Empty(t, buf.String())
}

func TestWriter_StatusText(t *testing.T) {
	w, buf := newWriter(FormatText)

	w.Successf("wrote %d pages", 3)
	w.Status("", "indented")

	assert.Contains(t, buf.String(), "✅ wrote 3 pages")
	assert.Contains(t, buf.String(), "   indented")
}

func TestWriter_PostsText(t *testing.T) {
	// Given: two posts with neighbors
	w, buf := newWriter(FormatText)

	// When: listing with navigation
	require.NoError(t, w.Posts(samplePosts(), true))

	// Then: one line per post with tags and neighbor ids
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "newer")
	assert.Contains(t, lines[0], "🚀 Newer")
	assert.Contains(t, lines[0], "#go #web")
	assert.Contains(t, lines[0], "[newer: - | older: older]")
	assert.Contains(t, lines[1], "[newer: newer | older: -]")
}

func TestWriter_PostsJSONWithoutNav(t *testing.T) {
	w, buf := newWriter(FormatJSON)

	require.NoError(t, w.Posts(samplePosts(), false))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0]["id"])
	assert.NotContains(t, got[0], "next")
}

func TestWriter_PostsJSONWithNav(t *testing.T) {
	w, buf := newWriter(FormatJSON)

	require.NoError(t, w.Posts(samplePosts(), true))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	next, ok := got[0]["next"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "older", next["id"])
}

func TestWriter_EntriesMalformedPost(t *testing.T) {
	w, buf := newWriter(FormatText)

	require.NoError(t, w.Entries([]content.Entry{{ID: "broken"}}))

	assert.Contains(t, buf.String(), "broken")
	assert.Contains(t, buf.String(), "(no frontmatter)")
}

func TestWriter_Tags(t *testing.T) {
	tags := []TagCount{{Tag: "go", Count: 2, Segment: "go"}, {Tag: "日記", Count: 1, Segment: "%E6%97%A5%E8%A8%98"}}

	t.Run("text", func(t *testing.T) {
		w, buf := newWriter(FormatText)
		require.NoError(t, w.Tags(tags))
		assert.Contains(t, buf.String(), "#go (2) go\n")
		assert.Contains(t, buf.String(), "#日記 (1) %E6%97%A5%E8%A8%98\n")
	})

	t.Run("json empty is an array", func(t *testing.T) {
		w, buf := newWriter(FormatJSON)
		require.NoError(t, w.Tags(nil))
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestWriter_Neighbors(t *testing.T) {
	n := content.Neighbors{Previous: &content.Neighbor{ID: "b", Title: "B"}}

	t.Run("text", func(t *testing.T) {
		w, buf := newWriter(FormatText)
		require.NoError(t, w.Neighbors("a", n))
		assert.Equal(t, "newer: b B\nolder: none\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		w, buf := newWriter(FormatJSON)
		require.NoError(t, w.Neighbors("a", n))
		assert.JSONEq(t, `{"id":"a","previous":{"id":"b","title":"B"}}`, buf.String())
	})
}

func TestWriter_Pages(t *testing.T) {
	res := site.Result{Written: []string{"hashtag/go.html"}, Skipped: []string{"???"}}

	t.Run("text", func(t *testing.T) {
		w, buf := newWriter(FormatText)
		require.NoError(t, w.Pages(res, "dist"))
		assert.Contains(t, buf.String(), "Wrote 1 tag pages to dist")
		assert.Contains(t, buf.String(), "Skipped 1 tags")
	})

	t.Run("json", func(t *testing.T) {
		w, buf := newWriter(FormatJSON)
		require.NoError(t, w.Pages(res, "dist"))
		assert.JSONEq(t, `{"out_dir":"dist","written":["hashtag/go.html"],"skipped":["???"]}`, buf.String())
	})
}
