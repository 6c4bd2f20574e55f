package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/query"
)

func newNavCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "nav <id>",
		Short: "Show the posts before and after a post",
		Long: `Show the chronological neighbors of a post: the next newer post and the
next older one. A post without a title or date has no neighbors.`,
		Example: `  postindex nav hello-world`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			a, full, err := setup(cmd, g)
			if err != nil {
				return err
			}
			if _, ok := full[id]; !ok {
				return apperrors.New(apperrors.ErrCodeUnknownPost, fmt.Sprintf("no post with id %q", id), nil).
					WithDetail("content_dir", a.contentDir).
					WithSuggestion("run 'postindex posts' to list ids")
			}

			w, err := g.writer(cmd)
			if err != nil {
				return err
			}
			if !query.IsValidID(id, full) {
				w.Warningf("Post %q has no title and is not linked from other posts", id)
			}
			return w.Neighbors(id, a.store.NeighborsFast(id))
		},
	}
}
