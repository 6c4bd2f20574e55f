package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockFileName is created in the output directory while pages are written.
const lockFileName = ".postindex.lock"

// FileLock serializes page generation across processes sharing an output
// directory.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewFileLock creates a lock at <dir>/.postindex.lock.
func NewFileLock(dir string) *FileLock {
	path := filepath.Join(dir, lockFileName)
	return &FileLock{
		path:  path,
		flock: flock.New(path),
	}
}

// Lock acquires the lock, retrying every retryDelay until ctx is done.
// It returns false without error when ctx ends first.
func (l *FileLock) Lock(ctx context.Context, retryDelay time.Duration) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}
