// Package config loads postindex configuration from defaults, the user
// config file, the project config file and POSTINDEX_* environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/chilitreat/postindex/internal/errors"
	"github.com/chilitreat/postindex/internal/hashtag"
	"github.com/chilitreat/postindex/internal/memo"
)

// ProjectConfigNames are the project config file names, in lookup order.
var ProjectConfigNames = []string{".postindex.yaml", ".postindex.yml"}

// Config represents the complete postindex configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Content ContentConfig `yaml:"content" json:"content"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Tags    TagsConfig    `yaml:"tags" json:"tags"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
	Site    SiteConfig    `yaml:"site" json:"site"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ContentConfig locates post files.
type ContentConfig struct {
	// Dir holds one file per post. Relative paths resolve against the
	// project root.
	Dir        string   `yaml:"dir" json:"dir"`
	Extensions []string `yaml:"extensions" json:"extensions"`
	// Workers bounds concurrent file parsing. 0 means one per CPU.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// CacheConfig sizes the memo cache.
type CacheConfig struct {
	Size int `yaml:"size" json:"size"`
}

// TagsConfig configures tag matching.
type TagsConfig struct {
	// Aliases lists groups of tags that match each other. A nil value
	// selects the built-in groups; an explicit empty list disables aliasing.
	Aliases AliasGroups `yaml:"aliases,omitempty" json:"aliases,omitzero"`
}

// AliasGroups is a list of tag alias groups. Only nil counts as unset, so
// an explicit empty list is written out as [] instead of being dropped.
type AliasGroups [][]string

// IsZero reports whether the groups are unset. yaml.v3 omitempty and
// encoding/json omitzero both consult it.
func (a AliasGroups) IsZero() bool {
	return a == nil
}

// WatchConfig configures the content watcher. Durations use
// time.ParseDuration syntax.
type WatchConfig struct {
	Debounce     string `yaml:"debounce" json:"debounce"`
	PollInterval string `yaml:"poll_interval" json:"poll_interval"`
}

// SiteConfig configures static tag page generation.
type SiteConfig struct {
	OutDir     string `yaml:"out_dir" json:"out_dir"`
	BasePath   string `yaml:"base_path" json:"base_path"`
	PostBase   string `yaml:"post_base" json:"post_base"`
	Lang       string `yaml:"lang" json:"lang"`
	Stylesheet string `yaml:"stylesheet,omitempty" json:"stylesheet,omitempty"`
	Redirect   bool   `yaml:"redirect" json:"redirect"`
}

// LoggingConfig configures the file logger.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// File overrides the default log path (~/.postindex/logs/postindex.log).
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint served by watch.
type MetricsConfig struct {
	// Addr is a listen address such as ":9464". Empty disables serving.
	Addr string `yaml:"addr" json:"addr"`
}

// NewConfig returns a configuration with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Content: ContentConfig{
			Dir:        filepath.Join("app", "routes", "posts"),
			Extensions: []string{".md", ".mdx"},
		},
		Cache: CacheConfig{
			Size: memo.DefaultSize,
		},
		Watch: WatchConfig{
			Debounce:     "200ms",
			PollInterval: "5s",
		},
		Site: SiteConfig{
			OutDir:   "dist",
			BasePath: "/hashtag",
			PostBase: "/posts",
			Lang:     "ja",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/postindex/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/postindex/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "postindex", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "postindex", "config.yaml")
	}
	return filepath.Join(home, ".config", "postindex", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	_, err := os.Stat(GetUserConfigPath())
	return err == nil
}

// Load loads configuration for the project rooted at dir. It applies, in
// order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/postindex/config.yaml)
//  3. Project config (.postindex.yaml in dir)
//  4. Environment variables (POSTINDEX_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if path := ProjectConfigPath(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if there
// is none. .yaml takes precedence over .yml.
func ProjectConfigPath(dir string) string {
	for _, name := range ProjectConfigNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// loadYAML merges the non-zero values of a YAML file into c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeConfigNotFound, "read config file", err).
			WithDetail("path", path)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return apperrors.ConfigError("parse config file", err).
			WithDetail("path", path).
			WithSuggestion("check the YAML syntax of " + filepath.Base(path))
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Content.Dir != "" {
		c.Content.Dir = other.Content.Dir
	}
	if len(other.Content.Extensions) > 0 {
		c.Content.Extensions = other.Content.Extensions
	}
	if other.Content.Workers != 0 {
		c.Content.Workers = other.Content.Workers
	}

	if other.Cache.Size != 0 {
		c.Cache.Size = other.Cache.Size
	}

	// nil means "not set"; an explicit [] clears the table
	if other.Tags.Aliases != nil {
		c.Tags.Aliases = other.Tags.Aliases
	}

	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.PollInterval != "" {
		c.Watch.PollInterval = other.Watch.PollInterval
	}

	if other.Site.OutDir != "" {
		c.Site.OutDir = other.Site.OutDir
	}
	if other.Site.BasePath != "" {
		c.Site.BasePath = other.Site.BasePath
	}
	if other.Site.PostBase != "" {
		c.Site.PostBase = other.Site.PostBase
	}
	if other.Site.Lang != "" {
		c.Site.Lang = other.Site.Lang
	}
	if other.Site.Stylesheet != "" {
		c.Site.Stylesheet = other.Site.Stylesheet
	}
	if other.Site.Redirect {
		c.Site.Redirect = true
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}

	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}

// applyEnvOverrides applies POSTINDEX_* environment variable overrides.
// Unparseable numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("POSTINDEX_CONTENT_DIR"); v != "" {
		c.Content.Dir = v
	}
	if v := os.Getenv("POSTINDEX_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.Size = n
		}
	}
	if v := os.Getenv("POSTINDEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("POSTINDEX_SITE_OUT_DIR"); v != "" {
		c.Site.OutDir = v
	}
	if v := os.Getenv("POSTINDEX_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("POSTINDEX_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return apperrors.ConfigError(fmt.Sprintf(format, args...), nil).WithDetail("field", field)
	}

	if c.Version != 1 {
		return invalid("version", "unsupported config version %d", c.Version)
	}
	if strings.TrimSpace(c.Content.Dir) == "" {
		return invalid("content.dir", "content.dir must not be empty")
	}
	for _, ext := range c.Content.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid("content.extensions", "content.extensions entries must look like \".md\", got %q", ext)
		}
	}
	if c.Content.Workers < 0 {
		return invalid("content.workers", "content.workers must not be negative, got %d", c.Content.Workers)
	}
	if c.Cache.Size <= 0 {
		return invalid("cache.size", "cache.size must be positive, got %d", c.Cache.Size)
	}
	for i, group := range c.Tags.Aliases {
		if len(group) < 2 {
			return invalid("tags.aliases", "tags.aliases[%d] needs at least two tags", i)
		}
	}
	if _, err := c.DebounceDuration(); err != nil {
		return invalid("watch.debounce", "watch.debounce: %v", err)
	}
	if _, err := c.PollIntervalDuration(); err != nil {
		return invalid("watch.poll_interval", "watch.poll_interval: %v", err)
	}
	if !strings.HasPrefix(c.Site.BasePath, "/") {
		return invalid("site.base_path", "site.base_path must start with '/', got %q", c.Site.BasePath)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level", "logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	return nil
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	return parsePositiveDuration(c.Watch.Debounce)
}

// PollIntervalDuration parses Watch.PollInterval.
func (c *Config) PollIntervalDuration() (time.Duration, error) {
	return parsePositiveDuration(c.Watch.PollInterval)
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

// Aliases builds the tag alias table. Unset aliases select the built-in
// groups.
func (c *Config) Aliases() hashtag.Aliases {
	if c.Tags.Aliases == nil {
		return hashtag.DefaultAliases()
	}
	return hashtag.NewAliases(c.Tags.Aliases...)
}

// ContentDir resolves Content.Dir against root.
func (c *Config) ContentDir(root string) string {
	if filepath.IsAbs(c.Content.Dir) {
		return c.Content.Dir
	}
	return filepath.Join(root, c.Content.Dir)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return apperrors.InternalError("marshal config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.New(apperrors.ErrCodeFilePermission, "create config directory", err).
			WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.New(apperrors.ErrCodeWriteFailed, "write config file", err).
			WithDetail("path", path)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
