package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	apperrors "github.com/chilitreat/postindex/internal/errors"
)

// DefaultExtensions are the file extensions loaded when none are configured.
var DefaultExtensions = []string{".md", ".mdx"}

// frontmatterPattern matches a leading ---\n...\n--- block.
var frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---(?:\r?\n|\z)`)

// LoadOptions configures Load.
type LoadOptions struct {
	// Dir is the directory holding one file per post.
	Dir string
	// Extensions selects which files are posts. Default: DefaultExtensions.
	Extensions []string
	// Workers bounds concurrent file parsing. Default: runtime.NumCPU().
	Workers int
}

// Load reads every post file directly under opts.Dir and returns the full
// collection. The id of a post is its file name without extension.
//
// Files that cannot be read or have no parseable frontmatter are logged and
// stored as nil entries so the collection still reflects every post file.
// Only failure to list the directory is returned as an error.
func Load(ctx context.Context, opts LoadOptions) (Collection, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	dirEntries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, apperrors.IOError(fmt.Sprintf("read content directory %s", opts.Dir), err).
			WithDetail("dir", opts.Dir).
			WithSuggestion("check content.dir in .postindex.yaml or pass --dir")
	}

	var (
		mu         sync.Mutex
		collection = make(Collection, len(dirEntries))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") || !HasExtension(de.Name(), opts.Extensions) {
			continue
		}
		name := de.Name()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(opts.Dir, name)
			post := loadFile(path)

			mu.Lock()
			collection[IDFromPath(name)] = post
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	slog.Debug("posts loaded",
		slog.String("dir", opts.Dir),
		slog.Int("count", len(collection)))
	return collection, nil
}

// Parse decodes the frontmatter of one post file. The returned post has ID
// set to id. It returns an error when the content has no frontmatter block
// or the block is not valid YAML.
func Parse(id string, data []byte) (*Post, error) {
	m := frontmatterPattern.FindSubmatch(data)
	if m == nil {
		return nil, apperrors.New(apperrors.ErrCodeFrontmatterMissing, "no frontmatter block", nil).
			WithDetail("id", id)
	}

	var p Post
	if err := yaml.Unmarshal(m[1], &p); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeFrontmatterInvalid, "invalid frontmatter", err).
			WithDetail("id", id)
	}
	p.ID = id
	return &p, nil
}

// IDFromPath returns the post id for a file path: its base name without
// extension.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasExtension reports whether name ends in one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func loadFile(path string) *Post {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable post file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}

	post, err := Parse(IDFromPath(path), data)
	if err != nil {
		slog.Warn("post has no usable frontmatter",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}

	if !IsComplete(post) {
		slog.Warn("post frontmatter is incomplete",
			slog.String("id", post.ID),
			slog.Bool("has_title", strings.TrimSpace(post.Title) != ""),
			slog.Bool("has_created_at", strings.TrimSpace(post.CreatedAt) != ""),
			slog.Bool("has_author", strings.TrimSpace(post.Author) != ""))
	}
	Sanitize(post)
	return post
}
