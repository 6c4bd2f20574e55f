package cmd

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/chilitreat/postindex/internal/config"
	"github.com/chilitreat/postindex/internal/site"
)

func newPagesCmd(g *globalFlags) *cobra.Command {
	var (
		outDir      string
		redirect    bool
		prune       bool
		workers     int
		lockTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Generate one static HTML page per tag",
		Long: `Generate <out>/<base_path>/<tag>.html for every tag, listing the tagged
posts newest first. Tags are percent-encoded in file names.

An exclusive lock on <out>/.postindex.lock keeps concurrent runs from
interleaving their writes.`,
		Example: `  postindex pages
  postindex pages --out public --redirect --prune`,
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

			opts := siteOptions(a.cfg)
			if cmd.Flags().Changed("out") {
				opts.OutDir = outDir
			}
			if cmd.Flags().Changed("redirect") {
				opts.Redirect = redirect
			}
			opts.Prune = prune
			opts.Workers = workers
			opts.LockTimeout = lockTimeout
			if !filepath.IsAbs(opts.OutDir) {
				opts.OutDir = filepath.Join(g.root, opts.OutDir)
			}

			res, err := site.Generate(cmd.Context(), site.PagesFromStore(a.store, full), opts)
			if err != nil {
				return err
			}
			return w.Pages(res, opts.OutDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output root (overrides site.out_dir)")
	cmd.Flags().BoolVar(&redirect, "redirect", false, "Redirect pages to the dynamic tag route")
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove pages of tags that no longer exist")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent page writes (default: number of CPUs)")
	cmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 10*time.Second, "Wait this long for another generator to finish")
	return cmd
}

// siteOptions maps the site config section onto generator options.
func siteOptions(cfg *config.Config) site.Options {
	return site.Options{
		OutDir:     cfg.Site.OutDir,
		BasePath:   cfg.Site.BasePath,
		PostBase:   cfg.Site.PostBase,
		Lang:       cfg.Site.Lang,
		Stylesheet: cfg.Site.Stylesheet,
		Redirect:   cfg.Site.Redirect,
	}
}
