package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chilitreat/postindex/internal/ui"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show content and index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, full, err := setup(cmd, g)
			if err != nil {
				return err
			}
			w, err := g.writer(cmd)
			if err != nil {
				return err
			}

			idx := a.store.Current()
			stats := a.cache.Stats()
			info := ui.StatusInfo{
				ContentDir: a.contentDir,
				Posts:      len(full),
				Sorted:     len(idx.SortedPosts),
				Tags:       len(idx.AllTags),
				Generation: idx.Generation.String(),
				BuiltAt:    idx.BuiltAt,
				IndexValid: a.store.IsValid(full),
				Cache: ui.CacheInfo{
					Len:       stats.Len,
					Size:      stats.Size,
					Hits:      stats.Hits,
					Misses:    stats.Misses,
					Evictions: stats.Evictions,
				},
			}
			for _, id := range full.SortedIDs() {
				if full[id] == nil {
					info.Malformed = append(info.Malformed, id)
				}
			}

			r := ui.NewStatusRenderer(cmd.OutOrStdout(), g.styles(cmd))
			if w.JSON() {
				return r.RenderJSON(info)
			}
			return r.Render(info)
		},
	}
}
