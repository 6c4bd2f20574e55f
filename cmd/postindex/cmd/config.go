package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chilitreat/postindex/configs"
	"github.com/chilitreat/postindex/internal/config"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/hashtag"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
		Long: `Configuration precedence (lowest to highest):
  1. Built-in defaults
  2. User config (~/.config/postindex/config.yaml)
  3. Project config (.postindex.yaml in --root)
  4. Environment variables (POSTINDEX_*)
  5. Command-line flags`,
	}

	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd(g))
	cmd.AddCommand(newConfigPathCmd(g))
	return cmd
}

func newConfigShowCmd(g *globalFlags) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.NewConfig()
			if !defaults {
				a, err := newApp(g, appOptions{})
				if err != nil {
					return err
				}
				cfg = a.cfg
			}

			w, err := g.writer(cmd)
			if err != nil {
				return err
			}
			if w.JSON() {
				return w.Encode(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return apperrors.InternalError("marshal config", err)
			}
			return w.Raw(string(data))
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Print built-in defaults only")
	return cmd
}

func newConfigInitCmd(g *globalFlags) *cobra.Command {
	var (
		user  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write the commented default configuration to .postindex.yaml in --root,
or the default settings to the user config file with --user. An existing file is kept unless --force is
given; with --force it is backed up first.`,
		Example: `  postindex config init
  postindex config init --user --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				path   string
				backup string
				err    error
			)
			if user {
				path = config.GetUserConfigPath()
				cfg := config.NewConfig()
				cfg.Tags.Aliases = hashtag.DefaultAliasGroups
				backup, err = config.Init(cfg, path, force)
			} else {
				path = filepath.Join(g.root, config.ProjectConfigNames[0])
				backup, err = config.InitTemplate(configs.ProjectConfigTemplate, path, force)
			}
			if err != nil {
				return err
			}

			w, err := g.writer(cmd)
			if err != nil {
				return err
			}
			if w.JSON() {
				return w.Encode(map[string]string{"path": path, "backup": backup})
			}
			if backup != "" {
				w.Status("💾", fmt.Sprintf("Backed up previous config to %s", backup))
			}
			w.Successf("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Write the user config instead of the project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file after backing it up")
	return cmd
}

func newConfigPathCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := g.writer(cmd)
			if err != nil {
				return err
			}
			project := config.ProjectConfigPath(g.root)
			if w.JSON() {
				return w.Encode(map[string]string{"user": config.GetUserConfigPath(), "project": project})
			}
			if project == "" {
				project = "(none)"
			}
			return w.Raw(fmt.Sprintf("user:    %s\nproject: %s", config.GetUserConfigPath(), project))
		},
	}
}
