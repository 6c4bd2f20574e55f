package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chilitreat/postindex/internal/errors"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
}

func TestDefaultLogPath(t *testing.T) {
	assert.Equal(t, "postindex.log", filepath.Base(DefaultLogPath()))
	assert.Equal(t, DefaultLogDir(), filepath.Dir(DefaultLogPath()))
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	// Given: file-only logging at warn level
	path := filepath.Join(t.TempDir(), "logs", "postindex.log")
	logger, cleanup, err := Setup(Config{Level: "warn", FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)

	// When: logging below and at the level
	logger.Info("ignored")
	logger.Warn("index stale", slog.Int("posts", 3))
	cleanup()

	// Then: only the warning reaches the file, as JSON
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ignored")
	assert.Contains(t, string(data), `"msg":"index stale"`)
	assert.Contains(t, string(data), `"posts":3`)
}

func TestSetup_NoFileFallsBackToStderr(t *testing.T) {
	logger, cleanup, err := Setup(Config{Level: "info"})

	require.NoError(t, err)
	require.NotNil(t, logger)
	cleanup()
}

func TestNewTextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTextLogger(buf, "error")

	logger.Warn("quiet")
	logger.Error("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "msg=loud")
}

func TestRotatingWriter_Rotates(t *testing.T) {
	// Given: a writer with a 1MB limit and two kept files
	path := filepath.Join(t.TempDir(), "postindex.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	w.SetSyncEach(false)

	chunk := bytes.Repeat([]byte("x"), 600*1024)

	// When: writing four chunks, each pair exceeding the limit
	for i := 0; i < 4; i++ {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: the current file and two rotated files exist, no third
	assert.FileExists(t, path)
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestRotatingWriter_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postindex.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w, err := NewRotatingWriter(path, 1, 1)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestRotatingWriter_WriteAfterCloseReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postindex.log")
	w, err := NewRotatingWriter(path, 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("again\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, _ := os.ReadFile(path)
	assert.Equal(t, "again\n", string(data))
}

func TestFindLogFile(t *testing.T) {
	t.Run("explicit existing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.log")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		got, err := FindLogFile(path)

		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("explicit missing", func(t *testing.T) {
		_, err := FindLogFile(filepath.Join(t.TempDir(), "missing.log"))

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeFileNotFound, apperrors.GetCode(err))
	})
}

const sampleLog = `{"time":"2024-03-01T10:00:00.000Z","level":"DEBUG","msg":"cache miss","key":"abc"}
{"time":"2024-03-01T10:00:01.000Z","level":"INFO","msg":"content refreshed","posts":3}
not json at all
{"time":"2024-03-01T10:00:02.000Z","level":"ERROR","msg":"refresh failed","error":"disk gone"}
`

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "postindex.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))
	return path
}

func TestViewer_Tail(t *testing.T) {
	path := writeLog(t)

	t.Run("last n lines", func(t *testing.T) {
		v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})
		entries, err := v.Tail(path, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.False(t, entries[0].IsValid)
		assert.Equal(t, "refresh failed", entries[1].Msg)
	})

	t.Run("level filter keeps raw lines", func(t *testing.T) {
		v := NewViewer(ViewerConfig{Level: "info", NoColor: true}, &bytes.Buffer{})
		entries, err := v.Tail(path, 100)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "content refreshed", entries[0].Msg)
	})

	t.Run("pattern filter", func(t *testing.T) {
		v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile(`disk`), NoColor: true}, &bytes.Buffer{})
		entries, err := v.Tail(path, 100)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "disk gone", entries[0].Attrs["error"])
	})
}

func TestViewer_PrintFormatsEntries(t *testing.T) {
	path := writeLog(t)
	buf := &bytes.Buffer{}
	v := NewViewer(ViewerConfig{NoColor: true}, buf)

	entries, err := v.Tail(path, 4)
	require.NoError(t, err)
	v.Print(entries)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "10:00:00.000 DEBUG cache miss key=abc", lines[0])
	assert.Equal(t, "not json at all", lines[2])
}

func TestViewer_FollowSeesAppendedLines(t *testing.T) {
	// Given: a log file being followed
	path := writeLog(t)
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := make(chan LogEntry, 4)
	done := make(chan error, 1)
	go func() { done <- v.Follow(ctx, path, entries) }()

	// Give Follow time to seek to the end before appending.
	time.Sleep(150 * time.Millisecond)

	// When: a line is appended
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"time":"2024-03-01T10:00:03Z","level":"INFO","msg":"appended"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Then: only the new entry arrives
	select {
	case entry := <-entries:
		assert.Equal(t, "appended", entry.Msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no entry received")
	}

	cancel()
	assert.NoError(t, <-done)
}
