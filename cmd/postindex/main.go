// Package main provides the entry point for the postindex CLI.
package main

import (
	"os"

	"github.com/chilitreat/postindex/cmd/postindex/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
