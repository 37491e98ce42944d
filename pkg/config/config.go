package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/output"
)

// Config holds all CLI configuration options
type Config struct {
	// Input settings
	InputPath string // CIS benchmark PDF (positional 1)

	// Output settings
	OutputPath   string // Workbook path (positional 2, or -o/-output)
	SectionsFile string // YAML file overriding the section name map

	// Export settings
	ExportFormats []string // Flat export formats from -export
	ExportBase    string   // Base path for export files (-export-file)
	TemplateFile  string   // Template file for the template export

	// Console settings
	Verbose bool // Per-page progress output
	Silent  bool // Suppress everything except errors
	NoColor bool // Disable colored output

	ShowVersion bool // Print version info and exit
}

// ParseFlags parses command line arguments and returns Config.
// Flags and positionals may be interleaved in any order: the parser
// collects non-flag tokens across repeated parse passes, so
// "benchsheet in.pdf -o out.xlsx" and "benchsheet -o out.xlsx in.pdf"
// are equivalent.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("benchsheet", flag.ContinueOnError)

	// === OUTPUT ===
	var outputFlag string
	fs.StringVar(&outputFlag, "output", "", "Workbook output path")
	fs.StringVar(&outputFlag, "o", "", "Workbook output path (alias)")
	fs.StringVar(&cfg.SectionsFile, "sections", "", "YAML file overriding section names")

	// === EXPORTS ===
	exportList := fs.String("export", "", "Flat export formats, comma-separated: "+strings.Join(output.KnownFormats(), ","))
	fs.StringVar(&cfg.ExportBase, "export-file", "", "Base path for export files (default: workbook path without extension)")
	fs.StringVar(&cfg.TemplateFile, "template", "", "Template file for the template export")

	// === CONSOLE ===
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Per-page progress output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose (alias)")
	fs.BoolVar(&cfg.Silent, "silent", false, "Silent mode - errors only")
	fs.BoolVar(&cfg.Silent, "s", false, "Silent (alias)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.NoColor, "nc", false, "No color (alias)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	// Parse with interleaving: each pass stops at the first non-flag
	// token; pocket it as a positional and resume on the remainder.
	var positionals []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, flag.ErrHelp
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		rem := fs.Args()
		if len(rem) == 0 {
			break
		}
		positionals = append(positionals, rem[0])
		rest = rem[1:]
	}

	if len(positionals) > 0 {
		cfg.InputPath = positionals[0]
	}
	if len(positionals) > 1 {
		cfg.OutputPath = positionals[1]
	}
	if len(positionals) > 2 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalidConfig, positionals[2])
	}

	// The positional output path beats the flag
	if cfg.OutputPath == "" {
		cfg.OutputPath = outputFlag
	}

	cfg.ExportFormats = parseCSV(*exportList)
	for _, format := range cfg.ExportFormats {
		if !output.IsKnownFormat(format) {
			return nil, fmt.Errorf("%w: unknown export format %q (known: %s)",
				ErrInvalidConfig, format, strings.Join(output.KnownFormats(), ", "))
		}
	}

	// Silent wins over verbose
	if cfg.Silent {
		cfg.Verbose = false
	}

	if !cfg.ShowVersion && cfg.InputPath == "" {
		return nil, fmt.Errorf("%w: input PDF path", ErrMissingRequired)
	}

	return cfg, nil
}

// ResolveOutputPath returns the workbook path. An explicit positional or
// flag value wins; otherwise the path is derived from the input stem in
// the working directory.
func (c *Config) ResolveOutputPath() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	base := filepath.Base(c.InputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + defaults.OutputSuffix
}

// ExportBasePath returns the path stem export writers append their
// extensions to: -export-file when given, else the workbook path with
// its extension dropped.
func (c *Config) ExportBasePath() string {
	if c.ExportBase != "" {
		return c.ExportBase
	}
	out := c.ResolveOutputPath()
	return strings.TrimSuffix(out, filepath.Ext(out))
}

// parseCSV splits a comma-separated flag value into a slice,
// trimming whitespace and dropping empty entries.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
