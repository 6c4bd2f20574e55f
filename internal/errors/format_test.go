package errors

import (
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_BasicError(t *testing.T) {
	// Given: an AppError
	err := New(ErrCodeFileNotFound, "content directory not found", nil)

	// When: formatting for the terminal
	result := FormatForCLI(err)

	// Then: message and code are shown
	assert.Contains(t, result, "Error: content directory not found")
	assert.Contains(t, result, "Code: ERR_201_FILE_NOT_FOUND")
	assert.NotContains(t, result, "Hint:")
}

func TestFormatForCLI_WithSuggestion(t *testing.T) {
	err := New(ErrCodeOutputLocked, "output directory is locked", nil).
		WithSuggestion("wait for the other postindex process to finish")

	result := FormatForCLI(err)

	assert.Contains(t, result, "Hint: wait for the other postindex process")
}

func TestFormatForCLI_StandardError(t *testing.T) {
	// Given: a standard Go error
	err := errors.New("something went wrong")

	// When: formatting
	result := FormatForCLI(err)

	// Then: it is treated as internal
	assert.Contains(t, result, "something went wrong")
	assert.Contains(t, result, ErrCodeInternal)
}

func TestFormatForCLI_Nil(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatJSON(t *testing.T) {
	// Given: an error with details and cause
	err := New(ErrCodeFrontmatterInvalid, "invalid frontmatter", errors.New("yaml: line 2")).
		WithDetail("post", "hello")

	// When: formatting as JSON
	data, ferr := FormatJSON(err)
	require.NoError(t, ferr)

	// Then: fields round-trip
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ErrCodeFrontmatterInvalid, got["code"])
	assert.Equal(t, "VALIDATION", got["category"])
	assert.Equal(t, "WARNING", got["severity"])
	assert.Equal(t, "yaml: line 2", got["cause"])
	assert.Equal(t, map[string]any{"post": "hello"}, got["details"])
}

func TestLogAttrs(t *testing.T) {
	err := New(ErrCodeIndexBuild, "build failed", nil).WithDetail("posts", "3")

	attrs := LogAttrs(err)

	keys := make(map[string]slog.Value)
	for _, a := range attrs {
		keys[a.Key] = a.Value
	}
	assert.Equal(t, ErrCodeIndexBuild, keys["error_code"].String())
	assert.Equal(t, "3", keys["detail_posts"].String())
	assert.Nil(t, LogAttrs(nil))
	assert.Len(t, LogAttrs(errors.New("x")), 1)
}
