package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/chilitreat/postindex/internal/content"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/output"
)

func newTagsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag with its post count and URL segment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := setup(cmd, g)
			if err != nil {
				return err
			}
			w, err := g.writer(cmd)
			if err != nil {
				return err
			}

			idx := a.store.Current()
			tags := make([]output.TagCount, 0, len(idx.AllTags))
			for _, tag := range idx.AllTags {
				tags = append(tags, output.TagCount{
					Tag:     tag,
					Count:   len(idx.PostsByTag[tag]),
					Segment: hashtag.ToURLSegment(tag),
				})
			}
			return w.Tags(tags)
		},
	}
}

func newTagCmd(g *globalFlags) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "tag <name>",
		Short: "List posts carrying a tag, newest first",
		Long: `List posts carrying a tag. The name is normalized first, so "React.js",
"reactjs" and "#ReactJS" are the same query, and alias groups apply.

Posts without a creation date match but are listed last.`,
		Example: `  postindex tag go
  postindex tag "React.js" --scan`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			if !hashtag.IsValid(raw) {
				return apperrors.New(apperrors.ErrCodeInvalidTag,
					fmt.Sprintf("tag %q has no letters or digits", raw), nil).
					WithSuggestion("tags keep a-z, 0-9, kana and kanji; everything else is dropped")
			}

			a, full, err := setup(cmd, g)
			if err != nil {
				return err
			}
			w, err := g.writer(cmd)
			if err != nil {
				return err
			}

			matched := a.store.ByTagFast(raw, full)
			if scan {
				matched = a.engine.FilterByTag(full, raw)
			}

			entries := slices.Clone(a.engine.SortByDate(matched))
			// Undated matches follow the dated ones in id order.
			seen := make(map[string]struct{}, len(entries))
			for _, e := range entries {
				seen[e.ID] = struct{}{}
			}
			for _, id := range matched.SortedIDs() {
				if _, ok := seen[id]; !ok {
					entries = append(entries, content.Entry{ID: id, Post: matched[id]})
				}
			}

			if len(entries) == 0 && !w.JSON() {
				w.Warningf("No posts tagged #%s", hashtag.Normalize(raw))
				return nil
			}
			return w.Entries(entries)
		},
	}

	cmd.Flags().BoolVar(&scan, "scan", false, "Filter the collection directly instead of using the index")
	return cmd
}
