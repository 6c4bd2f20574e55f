package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chilitreat/postindex/internal/content"
)

func newPostsCmd(g *globalFlags) *cobra.Command {
	var nav bool

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts newest first",
		Long: `List every post with a title and creation date, newest first.
Posts missing either field are left out.`,
		Example: `  postindex posts
  postindex posts --nav --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, full, err := setup(cmd, g)
			if err != nil {
				return err
			}
			w, err := g.writer(cmd)
			if err != nil {
				return err
			}

			sorted := a.store.SortedFast(full)
			posts := make([]content.PostWithNeighbors, len(sorted))
			for i, e := range sorted {
				posts[i] = content.PostWithNeighbors{ID: e.ID, Post: e.Post}
				if nav {
					posts[i].Neighbors = a.store.NeighborsFast(e.ID)
				}
			}
			return w.Posts(posts, nav)
		},
	}

	cmd.Flags().BoolVar(&nav, "nav", false, "Include previous and next posts")
	return cmd
}
