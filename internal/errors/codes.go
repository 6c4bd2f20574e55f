// Package errors provides structured errors for the content loader, config
// layer, page generator and CLI.
//
// Query operations on the index never return errors; they degrade to empty
// results. Errors from this package only surface where real I/O happens.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (content files, output directory)
//   - 4XX: Validation errors (frontmatter, ids, tags)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates invalid content or input.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityError indicates the operation failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeOutputLocked   = "ERR_203_OUTPUT_LOCKED"
	ErrCodeWriteFailed    = "ERR_204_WRITE_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput       = "ERR_401_INVALID_INPUT"
	ErrCodeFrontmatterMissing = "ERR_402_FRONTMATTER_MISSING"
	ErrCodeFrontmatterInvalid = "ERR_403_FRONTMATTER_INVALID"
	ErrCodeUnknownPost        = "ERR_404_UNKNOWN_POST"
	ErrCodeInvalidTag         = "ERR_405_INVALID_TAG"

	// Internal errors (500-599)
	ErrCodeInternal   = "ERR_501_INTERNAL"
	ErrCodeIndexBuild = "ERR_502_INDEX_BUILD"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if isRetryableCode(code) {
		return SeverityWarning
	}
	switch code {
	case ErrCodeFrontmatterMissing, ErrCodeFrontmatterInvalid:
		// A single bad post never stops the rest from loading.
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	return code == ErrCodeOutputLocked
}
