package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/logging"
	"github.com/chilitreat/postindex/internal/ui"
)

func newLogsCmd(g *globalFlags) *cobra.Command {
	var (
		follow  bool
		lines   int
		level   string
		filter  string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show debug logs",
		Long: `Show the debug log written by commands run with --debug
(~/.postindex/logs/postindex.log). Use -f to follow new entries.`,
		Example: `  postindex logs -n 100
  postindex logs -f --level warn
  postindex logs --filter refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logging.FindLogFile(logFile)
			if err != nil {
				return err
			}

			cfg := logging.ViewerConfig{
				Level:   level,
				NoColor: g.noColor || !ui.ColorEnabled(cmd.OutOrStdout()),
			}
			if filter != "" {
				re, err := regexp.Compile(filter)
				if err != nil {
					return apperrors.ValidationError(fmt.Sprintf("invalid --filter pattern %q", filter), err)
				}
				cfg.Pattern = re
			}

			viewer := logging.NewViewer(cfg, cmd.OutOrStdout())
			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return apperrors.IOError("read log file", err).WithDetail("path", path)
			}
			viewer.Print(entries)
			if !follow {
				return nil
			}

			ch := make(chan logging.LogEntry, 64)
			done := make(chan error, 1)
			go func() {
				done <- viewer.Follow(cmd.Context(), path, ch)
				close(ch)
			}()
			for entry := range ch {
				viewer.Print([]logging.LogEntry{entry})
			}
			return <-done
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow new log entries")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show lines matching this regular expression")
	cmd.Flags().StringVar(&logFile, "file", "", "Log file (default: ~/.postindex/logs/postindex.log)")
	return cmd
}
