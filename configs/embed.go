// Package configs holds the embedded project configuration template written
// by `postindex config init`.
//
// The template mirrors the built-in defaults from internal/config NewConfig,
// with comments, so a fresh .postindex.yaml documents every setting.
package configs

import _ "embed"

// ProjectConfigTemplate is the commented .postindex.yaml written into a
// project root.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
