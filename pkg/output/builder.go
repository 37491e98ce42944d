// Package output provides the CLI builder for wiring up export dispatching.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/output/writers"
	"github.com/benchsheet/benchsheet/pkg/sections"
)

// Config configures the export dispatcher based on CLI flags.
// The workbook is always written by the pipeline itself; the dispatcher
// only carries the optional flat exports that run alongside it.
type Config struct {
	// Formats lists the enabled export formats. KnownFormats returns
	// the recognized names; aliases (md/markdown) are folded together.
	Formats []string

	// BasePath is the path stem for file exports. Each format appends
	// its own extension.
	BasePath string

	// Title heads the document exports (Markdown, PDF).
	Title string

	// TemplatePath points at a text/template file, required by the
	// template format.
	TemplatePath string

	// Names resolves section numbers to display names.
	Names *sections.Config

	// TableOut receives the table export. Defaults to os.Stdout.
	TableOut io.Writer

	// NoColor disables ANSI colors in the table export.
	NoColor bool
}

// extensions maps each file-backed format to the extension appended to
// the base path. Aliases map to the same extension so requesting both
// spellings opens the file once.
var extensions = map[string]string{
	"csv":      ".csv",
	"json":     ".json",
	"jsonl":    ".jsonl",
	"markdown": ".md",
	"md":       ".md",
	"pdf":      ".pdf",
	"summary":  ".txt",
	"template": ".out",
}

// KnownFormats returns the recognized export format names, sorted.
func KnownFormats() []string {
	names := []string{"table"}
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownFormat reports whether name is a recognized export format.
func IsKnownFormat(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "table" {
		return true
	}
	_, ok := extensions[name]
	return ok
}

// BuildDispatcher creates a dispatcher with one writer per requested
// format. It opens all export files up front; on any error every file
// opened so far is closed and removed again. The caller is responsible
// for calling Close on the dispatcher when done.
func BuildDispatcher(cfg Config) (*dispatcher.Dispatcher, error) {
	d := dispatcher.New()

	// Track opened files for cleanup on error
	var openedFiles []*os.File
	cleanup := func() {
		for _, f := range openedFiles {
			f.Close()
			os.Remove(f.Name())
		}
	}

	// Helper to open a file for writing
	openFile := func(ext string) (*os.File, error) {
		if cfg.BasePath == "" {
			return nil, fmt.Errorf("export path not set")
		}
		path := cfg.BasePath + ext
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create export file %s: %w", path, err)
		}
		openedFiles = append(openedFiles, f)
		return f, nil
	}

	seen := make(map[string]bool)
	for _, raw := range cfg.Formats {
		format := strings.ToLower(strings.TrimSpace(raw))
		if format == "" {
			continue
		}
		// Fold aliases so "md,markdown" opens one file, not two.
		if ext, ok := extensions[format]; ok && seen[ext] {
			continue
		} else if ok {
			seen[ext] = true
		}

		switch format {
		case "csv":
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			// Checklists land in spreadsheets, so default to the
			// Excel-friendly variant: BOM plus formula sanitization.
			d.Register(writers.NewCSVWriter(f, writers.CSVOptions{
				IncludeHeader:    true,
				ExcelCompatible:  true,
				SanitizeFormulas: true,
			}))

		case "json":
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			d.Register(writers.NewJSONWriter(f, writers.JSONOptions{
				Pretty: true,
			}))

		case "jsonl":
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			d.Register(writers.NewJSONLWriter(f, writers.JSONLOptions{}))

		case "md", "markdown":
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			d.Register(writers.NewMarkdownWriter(f, writers.MarkdownConfig{
				Title:      cfg.Title,
				Names:      cfg.Names,
				IncludeTOC: true,
			}))

		case "pdf":
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			d.Register(writers.NewPDFWriter(f, writers.PDFConfig{
				Title:              cfg.Title,
				Names:              cfg.Names,
				IncludeTOC:         true,
				IncludeRemediation: true,
			}))

		case "summary":
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			w, err := writers.NewTemplateWriter(f, writers.TemplateConfig{
				BuiltIn: "summary",
			})
			if err != nil {
				cleanup()
				return nil, err
			}
			d.Register(w)

		case "template":
			if cfg.TemplatePath == "" {
				cleanup()
				return nil, fmt.Errorf("template export requires a template file (-template)")
			}
			f, err := openFile(extensions[format])
			if err != nil {
				cleanup()
				return nil, err
			}
			w, err := writers.NewTemplateWriter(f, writers.TemplateConfig{
				TemplatePath: cfg.TemplatePath,
			})
			if err != nil {
				cleanup()
				return nil, err
			}
			d.Register(w)

		case "table":
			out := cfg.TableOut
			if out == nil {
				out = os.Stdout
			}
			d.Register(writers.NewTableWriter(out, writers.TableConfig{
				Names:   cfg.Names,
				NoColor: cfg.NoColor,
			}))

		default:
			cleanup()
			return nil, fmt.Errorf("unknown export format %q (known: %s)",
				raw, strings.Join(KnownFormats(), ", "))
		}
	}

	return d, nil
}
