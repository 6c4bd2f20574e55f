package logging

import (
	"os"
	"path/filepath"

	apperrors "github.com/chilitreat/postindex/internal/errors"
)

// DefaultLogDir returns ~/.postindex/logs, or a directory under the temp
// dir when there is no home directory.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".postindex", "logs")
	}
	return filepath.Join(home, ".postindex", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "postindex.log")
}

// FindLogFile returns explicit if it exists, otherwise the default log path
// if that exists.
func FindLogFile(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = DefaultLogPath()
	}
	if _, err := os.Stat(path); err != nil {
		appErr := apperrors.New(apperrors.ErrCodeFileNotFound, "log file not found", err).
			WithDetail("path", path)
		if explicit == "" {
			appErr = appErr.WithSuggestion("run a command with --debug to start writing logs")
		}
		return "", appErr
	}
	return path, nil
}
