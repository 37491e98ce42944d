// Package presets embeds the bundled section-name preset files for
// distribution.
//
// This ensures the canonical section map is available regardless of
// installation method (Homebrew, Scoop, Docker, or manual download).
// The sections package falls back to these embedded presets when no
// user configuration file is given.
//
// Usage:
//
//	fs := presets.FS
//	data, _ := fs.ReadFile("sections.yaml")
package presets

import "embed"

// FS contains the bundled preset YAML files. Each file defines a mapping
// from top-level benchmark section numbers to display names.
//
//go:embed *.yaml
var FS embed.FS
