package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHybrid(t *testing.T, dir string) *HybridWatcher {
	t.Helper()
	w, err := NewHybridWatcher(Options{
		DebounceWindow: 20 * time.Millisecond,
		PollInterval:   20 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Start(ctx, dir) }()
	time.Sleep(150 * time.Millisecond) // wait for watcher to be ready
	return w
}

func nextBatch(t *testing.T, w *HybridWatcher) []FileEvent {
	t.Helper()
	select {
	case events := <-w.Events():
		return events
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for batch")
		return nil
	}
}

func paths(events []FileEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Path
	}
	return out
}

func TestHybridWatcher_DetectsPostCreation(t *testing.T) {
	// Given: a watched directory
	dir := t.TempDir()
	w := startHybrid(t, dir)

	// When: a post and an unrelated file are written
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.md"), []byte("---\n---\n"), 0o644))

	// Then: only the post is reported
	events := nextBatch(t, w)
	assert.Equal(t, []string{"hello.md"}, paths(events))
}

func TestHybridWatcher_DetectsDeletion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	w := startHybrid(t, dir)

	require.NoError(t, os.Remove(path))

	events := nextBatch(t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "gone.md", events[0].Path)
	assert.Contains(t, []Operation{OpDelete, OpRename}, events[0].Operation)
}

func TestHybridWatcher_ConfigChange(t *testing.T) {
	dir := t.TempDir()
	w := startHybrid(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".postindex.yaml"), []byte("version: 1\n"), 0o644))

	events := nextBatch(t, w)
	require.NotEmpty(t, events)
	assert.Equal(t, OpConfigChange, events[0].Operation)
}

func TestHybridWatcher_Start_InvalidPath(t *testing.T) {
	w, err := NewHybridWatcher(DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}

func TestHybridWatcher_Start_FileNotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	w, err := NewHybridWatcher(DefaultOptions())
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Error(t, w.Start(context.Background(), file))
}

func TestHybridWatcher_InvalidOptions(t *testing.T) {
	_, err := NewHybridWatcher(Options{DebounceWindow: -time.Second})
	assert.Error(t, err)
}

func TestHybridWatcher_ContextCancel_Stops(t *testing.T) {
	dir := t.TempDir()
	w, err := NewHybridWatcher(DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, dir) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestHybridWatcher_ConcurrentStop_Safe(t *testing.T) {
	w, err := NewHybridWatcher(DefaultOptions())
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			_ = w.Stop()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}
	assert.Contains(t, []string{"fsnotify", "polling"}, w.WatcherType())
}
