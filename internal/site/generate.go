// Package site writes one static HTML page per tag so every /hashtag/{tag}
// route exists in a static deployment.
package site

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chilitreat/postindex/internal/content"
	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/precompute"
)

// Page is the content of one tag page.
type Page struct {
	Tag   string
	Posts []content.Entry
}

// Options configures Generate.
type Options struct {
	// OutDir is the site output root. Pages go to <OutDir><BasePath>/.
	OutDir string
	// BasePath is the URL prefix of tag pages. Default: /hashtag
	BasePath string
	// PostBase is the URL prefix of post links. Default: /posts
	PostBase string
	// Lang is the html lang attribute. Default: ja
	Lang string
	// Stylesheet is linked from every page when set.
	Stylesheet string
	// Redirect adds a client-side redirect to the dynamic tag route.
	Redirect bool
	// Prune removes pages of tags that no longer exist.
	Prune bool
	// Workers bounds concurrent writes. Default: runtime.NumCPU()
	Workers int
	// LockTimeout bounds the wait for another generator. Default: 10s
	LockTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.BasePath == "" {
		o.BasePath = "/hashtag"
	}
	o.BasePath = "/" + strings.Trim(o.BasePath, "/")
	if o.PostBase == "" {
		o.PostBase = "/posts"
	}
	if o.Lang == "" {
		o.Lang = "ja"
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.LockTimeout <= 0 {
		o.LockTimeout = 10 * time.Second
	}
	return o
}

// Result reports what Generate did. Paths are relative to OutDir.
type Result struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped,omitempty"`
	Pruned  []string `json:"pruned,omitempty"`
}

// PagesFromStore builds one page per indexed tag. Posts on each page keep
// the store's newest-first order; posts that are not well-formed are
// listed on no page. full must be the complete current collection.
func PagesFromStore(store *precompute.Store, full content.Collection) []Page {
	sorted := store.SortedFast(full)
	tags := store.AllTagsFast()

	pages := make([]Page, 0, len(tags))
	for _, tag := range tags {
		members := store.ByTagFast(tag, full)
		posts := make([]content.Entry, 0, len(members))
		for _, entry := range sorted {
			if _, ok := members[entry.ID]; ok {
				posts = append(posts, entry)
			}
		}
		pages = append(pages, Page{Tag: tag, Posts: posts})
	}
	return pages
}

// Generate writes pages under opts.OutDir while holding the output lock.
// Pages whose tag has no URL segment are skipped.
func Generate(ctx context.Context, pages []Page, opts Options) (Result, error) {
	opts = opts.withDefaults()
	var res Result

	if opts.OutDir == "" {
		return res, apperrors.ValidationError("output directory is required", nil).
			WithSuggestion("pass --out or set site.out_dir")
	}

	pageDir := filepath.Join(opts.OutDir, filepath.FromSlash(strings.TrimPrefix(opts.BasePath, "/")))
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		return res, apperrors.New(apperrors.ErrCodeFilePermission, "create page directory", err).
			WithDetail("dir", pageDir)
	}

	lock := NewFileLock(opts.OutDir)
	lockCtx, cancel := context.WithTimeout(ctx, opts.LockTimeout)
	defer cancel()
	acquired, err := lock.Lock(lockCtx, 50*time.Millisecond)
	if err != nil {
		return res, apperrors.New(apperrors.ErrCodeFilePermission, "lock output directory", err).
			WithDetail("lock", lock.Path())
	}
	if !acquired {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, apperrors.New(apperrors.ErrCodeOutputLocked, "output directory is locked", nil).
			WithDetail("lock", lock.Path()).
			WithSuggestion("wait for the other postindex process to finish")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release output lock", slog.String("error", err.Error()))
		}
	}()

	var (
		mu   sync.Mutex
		keep = make(map[string]struct{}, len(pages))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, page := range pages {
		segment := hashtag.ToURLSegment(page.Tag)
		if segment == "" {
			res.Skipped = append(res.Skipped, page.Tag)
			continue
		}
		name := segment + ".html"
		keep[name] = struct{}{}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := writePage(filepath.Join(pageDir, name), page, segment, opts); err != nil {
				return err
			}
			rel := path.Join(strings.TrimPrefix(opts.BasePath, "/"), name)
			mu.Lock()
			res.Written = append(res.Written, rel)
			mu.Unlock()
			slog.Debug("tag page written", slog.String("tag", page.Tag), slog.String("path", rel))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	sort.Strings(res.Written)

	if opts.Prune {
		pruned, err := prune(pageDir, keep)
		if err != nil {
			return res, err
		}
		for _, name := range pruned {
			res.Pruned = append(res.Pruned, path.Join(strings.TrimPrefix(opts.BasePath, "/"), name))
		}
	}

	slog.Info("tag pages generated",
		slog.String("dir", pageDir),
		slog.Int("written", len(res.Written)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("pruned", len(res.Pruned)))
	return res, nil
}

func writePage(file string, page Page, segment string, opts Options) error {
	var buf bytes.Buffer
	data := pageData{
		Lang:       opts.Lang,
		Stylesheet: opts.Stylesheet,
		PostBase:   opts.PostBase,
		Redirect:   opts.Redirect,
		URL:        opts.BasePath + "/" + segment,
		Page:       page,
	}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return apperrors.InternalError(fmt.Sprintf("render page for tag %q", page.Tag), err)
	}

	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return apperrors.New(apperrors.ErrCodeWriteFailed, "write tag page", err).WithDetail("path", file)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return apperrors.New(apperrors.ErrCodeWriteFailed, "write tag page", err).WithDetail("path", file)
	}
	return nil
}

func prune(dir string, keep map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.IOError("list page directory", err).WithDetail("dir", dir)
	}

	var pruned []string
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".html") {
			continue
		}
		if _, ok := keep[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return pruned, apperrors.New(apperrors.ErrCodeWriteFailed, "remove stale page", err).
				WithDetail("path", name)
		}
		pruned = append(pruned, name)
	}
	return pruned, nil
}
