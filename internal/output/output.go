// Package output renders CLI results as styled text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chilitreat/postindex/internal/content"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/site"
	"github.com/chilitreat/postindex/internal/ui"
)

// Format selects the result encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", apperrors.ValidationError(fmt.Sprintf("unknown output format %q", s), nil).
			WithSuggestion("use --format text or --format json")
	}
}

// Writer writes command results. In JSON mode status messages are
// suppressed so stdout stays machine readable.
type Writer struct {
	out    io.Writer
	format Format
	styles ui.Styles
}

// New creates a Writer.
func New(out io.Writer, format Format, styles ui.Styles) *Writer {
	if format == "" {
		format = FormatText
	}
	return &Writer{out: out, format: format, styles: styles}
}

// JSON reports whether the writer emits JSON.
func (w *Writer) JSON() bool {
	return w.format == FormatJSON
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if w.JSON() {
		return
	}
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Success prints a success message with a checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.styles.Success.Render(msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.styles.Warning.Render(msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Encode writes v as indented JSON.
func (w *Writer) Encode(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Raw writes s followed by a newline, unstyled.
func (w *Writer) Raw(s string) error {
	_, err := fmt.Fprintln(w.out, strings.TrimSuffix(s, "\n"))
	return err
}

// Posts writes an ordered post list. With nav set, each line also shows
// the post's neighbors.
func (w *Writer) Posts(posts []content.PostWithNeighbors, nav bool) error {
	if w.JSON() {
		if !nav {
			entries := make([]content.Entry, len(posts))
			for i, p := range posts {
				entries[i] = content.Entry{ID: p.ID, Post: p.Post}
			}
			return w.Encode(entries)
		}
		return w.Encode(posts)
	}

	var b strings.Builder
	for _, p := range posts {
		b.WriteString(w.postLine(p.ID, p.Post))
		if nav {
			b.WriteString("  " + w.navSummary(p.Neighbors))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w.out, b.String())
	return err
}

// Entries writes a post list without navigation.
func (w *Writer) Entries(entries []content.Entry) error {
	posts := make([]content.PostWithNeighbors, len(entries))
	for i, e := range entries {
		posts[i] = content.PostWithNeighbors{ID: e.ID, Post: e.Post}
	}
	return w.Posts(posts, false)
}

func (w *Writer) postLine(id string, p *content.Post) string {
	if p == nil {
		return fmt.Sprintf("%-12s %s %s", "", w.styles.ID.Render(id), w.styles.Warning.Render("(no frontmatter)"))
	}
	var tags []string
	for _, t := range hashtag.Parse(p.Tags) {
		tags = append(tags, w.styles.Tag.Render("#"+t))
	}
	line := fmt.Sprintf("%s %s %s %s",
		w.styles.Date.Render(fmt.Sprintf("%-12s", p.CreatedAt)),
		w.styles.ID.Render(id),
		p.Emoji,
		w.styles.Title.Render(p.Title))
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	return line
}

func (w *Writer) navSummary(n content.Neighbors) string {
	prev, next := "-", "-"
	if n.Previous != nil {
		prev = n.Previous.ID
	}
	if n.Next != nil {
		next = n.Next.ID
	}
	return w.styles.Dim.Render(fmt.Sprintf("[newer: %s | older: %s]", prev, next))
}

// TagCount is one row of the tag listing.
type TagCount struct {
	Tag     string `json:"tag"`
	Count   int    `json:"count"`
	Segment string `json:"segment"`
}

// Tags writes the tag listing.
func (w *Writer) Tags(tags []TagCount) error {
	if w.JSON() {
		if tags == nil {
			tags = []TagCount{}
		}
		return w.Encode(tags)
	}

	var b strings.Builder
	for _, t := range tags {
		fmt.Fprintf(&b, "%s %s %s\n",
			w.styles.Tag.Render("#"+t.Tag),
			w.styles.Label.Render(fmt.Sprintf("(%d)", t.Count)),
			w.styles.Dim.Render(t.Segment))
	}
	_, err := io.WriteString(w.out, b.String())
	return err
}

// navigation is the JSON shape of Neighbors output.
type navigation struct {
	ID string `json:"id"`
	content.Neighbors
}

// Neighbors writes the neighbors of id.
func (w *Writer) Neighbors(id string, n content.Neighbors) error {
	if w.JSON() {
		return w.Encode(navigation{ID: id, Neighbors: n})
	}

	line := func(label string, nb *content.Neighbor) string {
		value := w.styles.Dim.Render("none")
		if nb != nil {
			value = fmt.Sprintf("%s %s", w.styles.ID.Render(nb.ID), w.styles.Title.Render(nb.Title))
		}
		return fmt.Sprintf("%s %s\n", w.styles.Label.Render(label), value)
	}
	_, err := io.WriteString(w.out, line("newer:", n.Previous)+line("older:", n.Next))
	return err
}

// Pages writes a site generation summary.
func (w *Writer) Pages(res site.Result, outDir string) error {
	if w.JSON() {
		return w.Encode(struct {
			OutDir string `json:"out_dir"`
			site.Result
		}{outDir, res})
	}

	w.Successf("Wrote %d tag pages to %s", len(res.Written), outDir)
	if len(res.Skipped) > 0 {
		w.Warningf("Skipped %d tags without a URL segment: %s", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	if len(res.Pruned) > 0 {
		w.Status("🧹", fmt.Sprintf("Removed %d stale pages", len(res.Pruned)))
	}
	return nil
}
