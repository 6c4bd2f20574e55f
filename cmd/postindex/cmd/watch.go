package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/memo"
	"github.com/chilitreat/postindex/internal/output"
	"github.com/chilitreat/postindex/internal/precompute"
	"github.com/chilitreat/postindex/internal/site"
	"github.com/chilitreat/postindex/internal/telemetry"
	"github.com/chilitreat/postindex/internal/ui"
	"github.com/chilitreat/postindex/internal/watcher"
)

const refreshHistory = 30

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		metricsAddr string
		pages       bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the index fresh while posts change",
		Long: `Watch the content directory and refresh the index after each burst of
changes. Every change to a post file clears the memo cache and rebuilds
the index.

With --metrics-addr, Prometheus metrics are served at /metrics.
With --pages, tag pages are regenerated after every rebuild.`,
		Example: `  postindex watch
  postindex watch --metrics-addr :9464 --pages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metrics := telemetry.NewMetrics()
			a, err := newApp(g, appOptions{
				cacheOpts: []memo.Option{memo.WithObserver(metrics)},
				storeOpts: []precompute.Option{precompute.WithObserver(metrics)},
			})
			if err != nil {
				return err
			}
			w, err := g.writer(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = a.cfg.Metrics.Addr
			}
			return runWatch(cmd.Context(), g, a, w, g.styles(cmd), watchOptions{
				metrics:     metrics,
				metricsAddr: metricsAddr,
				pages:       pages,
				out:         cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides metrics.addr)")
	cmd.Flags().BoolVar(&pages, "pages", false, "Regenerate tag pages after every rebuild")
	return cmd
}

type watchOptions struct {
	metrics     *telemetry.Metrics
	metricsAddr string
	pages       bool
	out         io.Writer
}

func runWatch(ctx context.Context, g *globalFlags, a *app, w *output.Writer, styles ui.Styles, opts watchOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// JSON output gets one encoded event per refresh and no renderer.
	var renderer ui.Renderer
	if !w.JSON() {
		renderer = ui.NewRenderer(ui.WatchConfig{
			Output:     opts.out,
			Styles:     styles,
			ContentDir: a.contentDir,
			ForcePlain: g.noColor,
			NoColor:    g.noColor,
			OnQuit:     cancel,
		})
		if err := renderer.Start(ctx); err != nil {
			return apperrors.InternalError("start watch view", err)
		}
		defer func() { _ = renderer.Stop() }()
	}
	notice := func(icon, msg string) {
		if renderer != nil {
			renderer.Notice(icon, msg)
		}
	}

	if opts.metricsAddr != "" {
		srv, err := telemetry.StartServer(opts.metricsAddr, opts.metrics)
		if err != nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "start metrics server", err).
				WithDetail("addr", opts.metricsAddr)
		}
		notice("📈", "Metrics at http://"+srv.Addr()+"/metrics")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	siteOpts := siteOptions(a.cfg)
	if !filepath.IsAbs(siteOpts.OutDir) {
		siteOpts.OutDir = filepath.Join(g.root, siteOpts.OutDir)
	}
	siteOpts.Prune = true

	history := telemetry.NewRefreshLog(refreshHistory)

	var refresher *watcher.Refresher
	onRefresh := func(ev telemetry.RefreshEvent) {
		if renderer != nil {
			renderer.Refresh(ev, history.Snapshot().Recent)
		} else {
			_ = w.Encode(ev)
		}
		if !opts.pages || !ev.Rebuilt || ev.Err != "" {
			return
		}
		full := refresher.Collection()
		if _, err := site.Generate(ctx, site.PagesFromStore(a.store, full), siteOpts); err != nil {
			slog.LogAttrs(ctx, slog.LevelError, "page generation failed", apperrors.LogAttrs(err)...)
		}
	}
	refresher = watcher.NewRefresher(a.load, a.cache, a.store,
		watcher.WithHistory(history),
		watcher.WithOnRefresh(onRefresh))

	if _, err := refresher.Refresh(ctx, true); err != nil {
		return err
	}

	debounce, _ := a.cfg.DebounceDuration()
	poll, _ := a.cfg.PollIntervalDuration()
	hw, err := watcher.NewHybridWatcher(watcher.Options{
		DebounceWindow: debounce,
		PollInterval:   poll,
		Extensions:     a.cfg.Content.Extensions,
	})
	if err != nil {
		return apperrors.InternalError("create watcher", err)
	}
	notice("👀", "Watching "+a.contentDir+" ("+hw.WatcherType()+")")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return hw.Start(ctx, a.contentDir)
	})
	eg.Go(func() error {
		return refresher.Run(ctx, hw.Events())
	})
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case err, ok := <-hw.Errors():
				if !ok {
					return nil
				}
				slog.Warn("watcher error", slog.String("error", err.Error()))
			}
		}
	})

	err = eg.Wait()
	_ = hw.Stop()
	if hw.DroppedBatches() > 0 {
		slog.Warn("event batches dropped while refreshing", slog.Uint64("dropped", hw.DroppedBatches()))
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return apperrors.IOError("watch content directory", err).WithDetail("path", a.contentDir)
	}
	return nil
}
