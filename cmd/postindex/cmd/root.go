// Package cmd provides the CLI commands for postindex.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/logging"
	"github.com/chilitreat/postindex/internal/output"
	"github.com/chilitreat/postindex/internal/profiling"
	"github.com/chilitreat/postindex/internal/ui"
	"github.com/chilitreat/postindex/pkg/version"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	root    string
	dir     string
	debug   bool
	format  string
	noColor bool
	profile profiling.Options

	loggingCleanup func()
	profiler       *profiling.Session
}

// NewRootCmd creates the root command for the postindex CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *globalFlags) {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "postindex",
		Short: "Tag and navigation index for a directory of Markdown posts",
		Long: `postindex reads the frontmatter of every post in a content directory and
answers the questions a blog build asks: posts in date order, previous and
next links, every hashtag, and the posts carrying a tag.

Results are memoized and precomputed into an index that is rebuilt only
when the set of posts changes.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("postindex version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.root, "root", ".", "Project root holding .postindex.yaml")
	pf.StringVar(&g.dir, "dir", "", "Content directory (overrides content.dir)")
	pf.BoolVar(&g.debug, "debug", false, "Enable debug logging to ~/.postindex/logs/")
	pf.StringVar(&g.format, "format", "text", "Output format: text or json")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&g.profile.CPU, "profile-cpu", "", "Write a CPU profile to this file")
	pf.StringVar(&g.profile.Heap, "profile-mem", "", "Write a heap profile to this file on exit")
	pf.StringVar(&g.profile.Trace, "profile-trace", "", "Write an execution trace to this file")
	_ = pf.MarkHidden("profile-trace")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := g.startLogging(cmd); err != nil {
			return err
		}
		return g.startProfiling()
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		err := g.stopProfiling()
		g.stopLogging()
		return err
	}

	cmd.AddCommand(newPostsCmd(g))
	cmd.AddCommand(newTagsCmd(g))
	cmd.AddCommand(newTagCmd(g))
	cmd.AddCommand(newNavCmd(g))
	cmd.AddCommand(newPagesCmd(g))
	cmd.AddCommand(newWatchCmd(g))
	cmd.AddCommand(newStatusCmd(g))
	cmd.AddCommand(newConfigCmd(g))
	cmd.AddCommand(newLogsCmd(g))
	cmd.AddCommand(newVersionCmd())

	return cmd, g
}

// startLogging installs the default slog logger. Without --debug only
// warnings reach stderr.
func (g *globalFlags) startLogging(cmd *cobra.Command) error {
	if !g.debug {
		slog.SetDefault(logging.NewTextLogger(cmd.ErrOrStderr(), "warn"))
		return nil
	}

	cfg := logging.DebugConfig()
	cfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("setup debug logging: %w", err)
	}
	g.loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled",
		slog.String("log_file", cfg.FilePath),
		slog.String("command", cmd.CommandPath()),
		slog.String("version", version.Version))
	return nil
}

func (g *globalFlags) stopLogging() {
	if g.loggingCleanup != nil {
		g.loggingCleanup()
		g.loggingCleanup = nil
	}
}

func (g *globalFlags) startProfiling() error {
	if !g.profile.Enabled() {
		return nil
	}
	s, err := profiling.Start(g.profile)
	if err != nil {
		return apperrors.IOError("failed to start profiling", err)
	}
	g.profiler = s
	slog.Debug("profiling started",
		slog.String("cpu", g.profile.CPU),
		slog.String("heap", g.profile.Heap),
		slog.String("trace", g.profile.Trace))
	return nil
}

func (g *globalFlags) stopProfiling() error {
	if g.profiler == nil {
		return nil
	}
	s := g.profiler
	g.profiler = nil
	if err := s.Stop(); err != nil {
		return apperrors.IOError("failed to write profile", err)
	}
	return nil
}

// writer builds the result writer for cmd's stdout.
func (g *globalFlags) writer(cmd *cobra.Command) (*output.Writer, error) {
	format, err := output.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return output.New(cmd.OutOrStdout(), format, g.styles(cmd)), nil
}

func (g *globalFlags) styles(cmd *cobra.Command) ui.Styles {
	if g.noColor {
		return ui.NoColorStyles()
	}
	return ui.StylesFor(cmd.OutOrStdout())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, g := newRootCmd()
	// PersistentPostRunE is skipped when a command fails.
	defer g.stopLogging()
	defer func() { _ = g.stopProfiling() }()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	slog.LogAttrs(ctx, slog.LevelError, "command failed", apperrors.LogAttrs(err)...)
	if format, _ := root.PersistentFlags().GetString("format"); format == string(output.FormatJSON) {
		if data, jerr := apperrors.FormatJSON(err); jerr == nil {
			_, _ = fmt.Fprintln(os.Stderr, string(data))
			return 1
		}
	}
	_, _ = fmt.Fprint(os.Stderr, apperrors.FormatForCLI(err))
	return 1
}
