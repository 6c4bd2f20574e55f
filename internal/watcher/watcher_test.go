package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpCreate, "CREATE"},
		{OpModify, "MODIFY"},
		{OpDelete, "DELETE"},
		{OpRename, "RENAME"},
		{OpConfigChange, "CONFIG_CHANGE"},
		{Operation(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	// Given: options with only a debounce window
	opts := Options{DebounceWindow: time.Second}.WithDefaults()

	// Then: the rest is filled in
	assert.Equal(t, time.Second, opts.DebounceWindow)
	assert.Equal(t, 5*time.Second, opts.PollInterval)
	assert.Equal(t, 100, opts.EventBufferSize)
	assert.Equal(t, []string{".md", ".mdx"}, opts.Extensions)
	assert.Contains(t, opts.ConfigFiles, ".postindex.yaml")
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Error(t, Options{DebounceWindow: -1}.Validate())
	assert.Error(t, Options{PollInterval: -1}.Validate())
	assert.Error(t, Options{EventBufferSize: -1}.Validate())
}

func TestOptions_Classify(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name   string
		wantOp Operation
		wantOK bool
	}{
		{"post.md", OpModify, true},
		{"post.MDX", OpModify, true},
		{".postindex.yaml", OpConfigChange, true},
		{".post.md.swp", OpModify, false},
		{"post.md~", OpModify, false},
		{"image.png", OpModify, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := opts.classify(tt.name, OpModify)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantOp, op)
			}
		})
	}
}
