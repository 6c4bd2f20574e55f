package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/chilitreat/postindex/internal/errors"
)

const (
	// MaxBackups is the number of config backups kept next to a config file.
	MaxBackups = 3

	backupInfix = ".bak."
)

// backupNow is replaced in tests to get distinct, ordered backup names.
var backupNow = time.Now

// Backup copies the file at path to a timestamped sibling and prunes older
// backups beyond MaxBackups. It returns "" when path does not exist.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeFilePermission, "read config for backup", err).
			WithDetail("path", path)
	}

	backupPath := path + backupInfix + backupNow().UTC().Format("20060102-150405.000")
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", apperrors.New(apperrors.ErrCodeWriteFailed, "write config backup", err).
			WithDetail("path", backupPath)
	}

	// Pruning is best effort; the backup itself succeeded.
	_ = pruneBackups(path)
	return backupPath, nil
}

// ListBackups returns the backups of the file at path, newest first.
func ListBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list config directory: %w", err)
	}

	prefix := filepath.Base(path) + backupInfix
	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, entry.Name()))
		}
	}

	// Timestamps sort lexically.
	slices.Sort(backups)
	slices.Reverse(backups)
	return backups, nil
}

func pruneBackups(path string) error {
	backups, err := ListBackups(path)
	if err != nil || len(backups) <= MaxBackups {
		return err
	}
	for _, old := range backups[MaxBackups:] {
		_ = os.Remove(old)
	}
	return nil
}

// Init writes cfg to path. An existing file is left alone unless force is
// set, in which case it is backed up first. The returned string is the
// backup path, if one was made.
func Init(cfg *Config, path string, force bool) (string, error) {
	return initFile(path, force, cfg.WriteYAML)
}

// InitTemplate is Init for a ready-made document such as the commented
// project template. The template must load as a valid Config.
func InitTemplate(template, path string, force bool) (string, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal([]byte(template), cfg); err != nil {
		return "", apperrors.InternalError("config template does not parse", err)
	}
	if err := cfg.Validate(); err != nil {
		return "", apperrors.InternalError("config template is invalid", err)
	}

	return initFile(path, force, func(path string) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return apperrors.New(apperrors.ErrCodeFilePermission, "create config directory", err).
				WithDetail("path", path)
		}
		if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
			return apperrors.New(apperrors.ErrCodeWriteFailed, "write config file", err).
				WithDetail("path", path)
		}
		return nil
	})
}

func initFile(path string, force bool, write func(string) error) (string, error) {
	if fileExists(path) && !force {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "config file already exists", nil).
			WithDetail("path", path).
			WithSuggestion("use --force to overwrite; the current file is backed up first")
	}

	backupPath, err := Backup(path)
	if err != nil {
		return "", err
	}
	if err := write(path); err != nil {
		return backupPath, err
	}
	return backupPath, nil
}
