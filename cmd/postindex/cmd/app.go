package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chilitreat/postindex/internal/config"
	"github.com/chilitreat/postindex/internal/content"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/memo"
	"github.com/chilitreat/postindex/internal/precompute"
	"github.com/chilitreat/postindex/internal/query"
)

// app wires the engine for one command invocation.
type app struct {
	cfg        *config.Config
	contentDir string
	cache      *memo.Cache
	engine     *query.Engine
	store      *precompute.Store
}

type appOptions struct {
	cacheOpts []memo.Option
	storeOpts []precompute.Option
}

// newApp loads configuration and builds an empty engine and store.
func newApp(g *globalFlags, opts appOptions) (*app, error) {
	root, err := filepath.Abs(g.root)
	if err != nil {
		return nil, apperrors.IOError("resolve project root", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if g.dir != "" {
		cfg.Content.Dir = g.dir
	}

	cache, err := memo.New(cfg.Cache.Size, opts.cacheOpts...)
	if err != nil {
		return nil, apperrors.InternalError("create memo cache", err)
	}
	engine := query.New(cache, query.WithAliases(cfg.Aliases()))

	a := &app{
		cfg:        cfg,
		contentDir: cfg.ContentDir(root),
		cache:      cache,
		engine:     engine,
		store:      precompute.New(engine, opts.storeOpts...),
	}
	slog.Debug("app configured",
		slog.String("content_dir", a.contentDir),
		slog.Int("cache_size", cfg.Cache.Size))
	return a, nil
}

// load reads the content directory.
func (a *app) load(ctx context.Context) (content.Collection, error) {
	return content.Load(ctx, content.LoadOptions{
		Dir:        a.contentDir,
		Extensions: a.cfg.Content.Extensions,
		Workers:    a.cfg.Content.Workers,
	})
}

// loadIndexed loads the collection and builds the index from it.
func (a *app) loadIndexed(ctx context.Context) (content.Collection, error) {
	full, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	a.store.Build(full)
	return full, nil
}

// setup is the common prologue of read-only commands.
func setup(cmd *cobra.Command, g *globalFlags) (*app, content.Collection, error) {
	a, err := newApp(g, appOptions{})
	if err != nil {
		return nil, nil, err
	}
	full, err := a.loadIndexed(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return a, full, nil
}
