package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/chilitreat/postindex/internal/content"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new post file appeared.
	OpCreate Operation = iota
	// OpModify indicates a post file was rewritten.
	OpModify
	// OpDelete indicates a post file was removed.
	OpDelete
	// OpRename indicates a post file was renamed away.
	OpRename
	// OpConfigChange indicates the project config file changed.
	OpConfigChange
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	case OpConfigChange:
		return "CONFIG_CHANGE"
	default:
		return "UNKNOWN"
	}
}

// FileEvent represents a change to one file in the content directory.
type FileEvent struct {
	// Path is the file name relative to the watched directory.
	Path string

	Operation Operation

	// Timestamp is when the event was detected.
	Timestamp time.Time
}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is the quiet time before a batch is emitted.
	// Default: 200ms
	DebounceWindow time.Duration

	// PollInterval is the scan interval in polling mode.
	// Default: 5s
	PollInterval time.Duration

	// EventBufferSize is the number of batches buffered for the consumer.
	// Default: 100
	EventBufferSize int

	// Extensions selects post files. Default: content.DefaultExtensions.
	Extensions []string

	// ConfigFiles are file names reported as OpConfigChange.
	// Default: .postindex.yaml, .postindex.yml
	ConfigFiles []string
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:  200 * time.Millisecond,
		PollInterval:    5 * time.Second,
		EventBufferSize: 100,
		Extensions:      content.DefaultExtensions,
		ConfigFiles:     []string{".postindex.yaml", ".postindex.yml"},
	}
}

// Validate returns an error for negative durations or sizes.
func (o Options) Validate() error {
	if o.DebounceWindow < 0 {
		return fmt.Errorf("debounce window must not be negative: %s", o.DebounceWindow)
	}
	if o.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative: %s", o.PollInterval)
	}
	if o.EventBufferSize < 0 {
		return fmt.Errorf("event buffer size must not be negative: %d", o.EventBufferSize)
	}
	return nil
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow == 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.PollInterval == 0 {
		o.PollInterval = defaults.PollInterval
	}
	if o.EventBufferSize == 0 {
		o.EventBufferSize = defaults.EventBufferSize
	}
	if len(o.Extensions) == 0 {
		o.Extensions = defaults.Extensions
	}
	if len(o.ConfigFiles) == 0 {
		o.ConfigFiles = defaults.ConfigFiles
	}
	return o
}

// classify decides how a changed file name is reported. ok is false for
// files the watcher ignores: dotfiles, editor temp files and anything that
// is neither a post nor a config file.
func (o Options) classify(name string, op Operation) (Operation, bool) {
	base := filepath.Base(name)
	if slices.Contains(o.ConfigFiles, base) {
		return OpConfigChange, true
	}
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return op, false
	}
	return op, content.HasExtension(base, o.Extensions)
}
