package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/config"
	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/extract"
	"github.com/benchsheet/benchsheet/pkg/output"
	"github.com/benchsheet/benchsheet/pkg/pdftext"
	"github.com/benchsheet/benchsheet/pkg/report"
	"github.com/benchsheet/benchsheet/pkg/sections"
	"github.com/benchsheet/benchsheet/pkg/ui"
)

// runConvert is the primary command: benchmark PDF in, checklist workbook
// out, plus any requested flat exports.
func runConvert(args []string) {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(defaults.ExitSuccess)
		}
		exitWithUsage(err.Error())
	}

	ui.SetSilent(cfg.Silent)
	ui.SetNoColor(cfg.NoColor)

	if cfg.ShowVersion {
		ui.PrintVersion()
		os.Exit(defaults.ExitSuccess)
	}

	if _, err := os.Stat(cfg.InputPath); err != nil {
		exitWithError(fmt.Sprintf("File not found: %s", cfg.InputPath))
	}

	names := sections.Default()
	if cfg.SectionsFile != "" {
		names, err = sections.Load(cfg.SectionsFile)
		if err != nil {
			exitWithError(fmt.Sprintf("Cannot load sections config: %v", err))
		}
	}

	outputPath := cfg.ResolveOutputPath()

	verbose := ""
	if cfg.Verbose {
		verbose = "true"
	}
	ui.PrintBanner()
	ui.PrintConfigBanner(map[string]string{
		"Input":       cfg.InputPath,
		"Output":      outputPath,
		"Sections":    cfg.SectionsFile,
		"Exports":     strings.Join(cfg.ExportFormats, ","),
		"Export Base": cfg.ExportBase,
		"Template":    cfg.TemplateFile,
		"Verbose":     verbose,
	})

	doc, err := pdftext.Open(cfg.InputPath)
	if err != nil {
		exitWithError(fmt.Sprintf("Cannot open PDF: %v", err))
	}
	defer doc.Close()

	opts := extract.DefaultOptions()
	opts.Reporter = &consoleReporter{verbose: cfg.Verbose}
	result, err := extract.New(opts).Run(doc)
	if err != nil {
		exitWithError(fmt.Sprintf("Extraction failed: %v", err))
	}

	stagef("📂 Organized into %d sections", len(result.Groups))
	stagef("📊 Generating Excel file: %s", outputPath)

	checklist := report.NewBuilder(result.Meta, names).Build(result.Groups, time.Now())
	for _, sheet := range checklist.Sheets {
		stagef("  ✓ Created sheet: %s (%d rows)", sheet.Name, len(sheet.Rows))
	}
	if err := report.WriteExcel(checklist, outputPath); err != nil {
		exitWithError(fmt.Sprintf("Cannot write Excel file: %v", err))
	}
	stagef("✅ Excel file saved: %s", outputPath)

	summary := checklist.Summary(outputPath)

	if len(cfg.ExportFormats) > 0 {
		if err := runExports(cfg, names, result.Records, &summary); err != nil {
			exitWithError(fmt.Sprintf("Export failed: %v", err))
		}
	}

	printCompletion(&summary, outputPath)
}

// runExports fans the extracted records out to the requested flat formats.
func runExports(cfg *config.Config, names *sections.Config, records []cis.Recommendation, summary *report.Summary) error {
	d, err := output.BuildDispatcher(output.Config{
		Formats:      cfg.ExportFormats,
		BasePath:     cfg.ExportBasePath(),
		TemplatePath: cfg.TemplateFile,
		Names:        names,
		NoColor:      cfg.NoColor,
	})
	if err != nil {
		return err
	}

	var errs []error
	for i := range records {
		if err := d.WriteRecord(&records[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.WriteSummary(summary); err != nil {
		errs = append(errs, err)
	}
	if err := d.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	stagef("📦 Flat exports: %s", strings.Join(cfg.ExportFormats, ", "))
	return nil
}

// stagef prints one conversion stage line to stderr, honoring silent mode.
// Emoji markers are stripped automatically on terminals that cannot render
// them.
func stagef(format string, args ...interface{}) {
	if ui.IsSilent() {
		return
	}
	ui.Fprintf(os.Stderr, format+"\n", args...)
}

// printCompletion prints the closing banner after a successful conversion.
func printCompletion(s *report.Summary, outputPath string) {
	if ui.IsSilent() {
		return
	}
	line := strings.Repeat("=", 80)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, line)
	stagef("✅ CONVERSION COMPLETE!")
	stagef("📗 Output: %s", outputPath)
	stagef("📊 Total: %d controls in %d sheets", s.TotalControls, s.TotalSheets)
	fmt.Fprintln(os.Stderr, line)
}

// consoleReporter renders extraction progress as console stage lines.
// Page indices arrive 0-based and are shown 1-based.
type consoleReporter struct {
	verbose bool
}

var _ extract.Reporter = (*consoleReporter)(nil)

func (r *consoleReporter) MetadataDetected(meta cis.Metadata) {
	switch {
	case meta.Title != "" && meta.Version != "":
		stagef("📄 Detected CIS Benchmark: %s %s", meta.Title, meta.Version)
	case meta.Title != "":
		stagef("📄 Detected CIS Benchmark: %s", meta.Title)
		ui.PrintWarning("No version found in document")
	default:
		ui.PrintWarning("Could not detect benchmark title, using generic heading")
	}
}

func (r *consoleReporter) StartPageFound(page int, fallback bool) {
	if fallback {
		ui.PrintWarning(fmt.Sprintf("No recommendation headings in first pages, starting at page %d", page+1))
	} else {
		stagef("📍 Found start page: %d", page+1)
	}
	stagef("🔍 Extracting recommendations...")
}

func (r *consoleReporter) PageScanned(page, accepted int) {
	if r.verbose && accepted > 0 {
		stagef("   Page %d: found %d", page+1, accepted)
	}
}

func (r *consoleReporter) PageSkipped(page int, err error) {
	if r.verbose {
		ui.PrintWarning(fmt.Sprintf("Skipping page %d: %v", page+1, err))
	}
}

func (r *consoleReporter) ExtractionDone(total int) {
	stagef("✅ Extracted %d unique recommendations", total)
}
