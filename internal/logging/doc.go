// Package logging configures slog for postindex.
//
// Without --debug the CLI logs warnings and errors to stderr as text. With
// --debug, JSON logs at debug level also go to a size-rotated file under
// ~/.postindex/logs/, which `postindex logs` can tail and follow.
package logging
