// Package ui provides terminal detection and styled renderers for status
// and watch output.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// ColorEnabled reports whether output to w should be styled: w must be a
// terminal, and neither NO_COLOR nor a CI environment may be present.
func ColorEnabled(w io.Writer) bool {
	return IsTTY(w) && !DetectNoColor() && !DetectCI()
}

// StylesFor returns colored styles when w supports them.
func StylesFor(w io.Writer) Styles {
	return GetStyles(!ColorEnabled(w))
}
