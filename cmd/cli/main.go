// Command benchsheet converts CIS benchmark PDFs into multi-sheet Excel
// audit checklists, with optional flat exports alongside the workbook.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/output"
	"github.com/benchsheet/benchsheet/pkg/sections"
	"github.com/benchsheet/benchsheet/pkg/ui"
)

// Build metadata injected at release time via -ldflags.
var (
	version string
	commit  string
	date    string
)

func main() {
	ui.SetVersionInfo(version, commit, date)

	defer func() {
		if r := recover(); r != nil {
			ui.PrintError(fmt.Sprintf("panic: %v", r))
			os.Stderr.Write(debug.Stack())
			os.Exit(defaults.ExitError)
		}
	}()

	// Check for subcommands
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(defaults.ExitError)
	}

	switch os.Args[1] {
	case "convert":
		runConvert(os.Args[2:])
	case "sections":
		runSections(os.Args[2:])
	case "version", "-version", "--version":
		ui.PrintVersion()
		os.Exit(defaults.ExitSuccess)
	case "-h", "--help", "help":
		printUsage()
		os.Exit(defaults.ExitSuccess)
	default:
		// Assume a PDF path or flags for the default convert command
		runConvert(os.Args[1:])
	}
}

// runSections shows the effective section-name mapping, or writes it out as
// a YAML file to use as a starting point for overrides.
func runSections(args []string) {
	fs := flag.NewFlagSet("sections", flag.ContinueOnError)
	sectionsFile := fs.String("sections", "", "YAML file overriding section names")
	writePath := fs.String("write", "", "write the effective mapping to a YAML file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(defaults.ExitSuccess)
		}
		exitWithUsage(err.Error())
	}

	cfg := sections.Default()
	if *sectionsFile != "" {
		var err error
		cfg, err = sections.Load(*sectionsFile)
		if err != nil {
			exitWithError(fmt.Sprintf("Cannot load sections config: %v", err))
		}
	}

	if *writePath != "" {
		if err := sections.Save(cfg, *writePath); err != nil {
			exitWithError(fmt.Sprintf("Cannot write sections config: %v", err))
		}
		ui.PrintSuccess(fmt.Sprintf("Wrote section names to %s", *writePath))
		return
	}

	for _, n := range cfg.Numbers() {
		fmt.Printf("%2d: %s\n", n, cfg.Names[n])
	}
}

func printUsage() {
	ui.PrintBanner()

	fmt.Println(ui.SectionStyle.Render("USAGE"))
	fmt.Println()
	fmt.Println("  benchsheet <benchmark.pdf> [output.xlsx] [flags]")
	fmt.Println("  benchsheet <command> [flags]")
	fmt.Println()
	fmt.Println(ui.SectionStyle.Render("COMMANDS"))
	fmt.Println()
	fmt.Printf("  %s  Convert a CIS benchmark PDF to a checklist workbook (default)\n", ui.ConfigValueStyle.Render("convert "))
	fmt.Printf("  %s  Show or save the section-name mapping\n", ui.ConfigValueStyle.Render("sections"))
	fmt.Printf("  %s  Print version information\n", ui.ConfigValueStyle.Render("version "))
	fmt.Printf("  %s  Show this help\n", ui.ConfigValueStyle.Render("help    "))
	fmt.Println()
	fmt.Println(ui.SectionStyle.Render("FLAGS"))
	fmt.Println()
	fmt.Println("  -o, -output <path>     Workbook output path")
	fmt.Println("  -sections <yaml>       YAML file overriding section names")
	fmt.Println("  -export <formats>      Flat exports: " + strings.Join(output.KnownFormats(), ","))
	fmt.Println("  -export-file <base>    Base path for export files")
	fmt.Println("  -template <file>       Template file for the template export")
	fmt.Println("  -v, -verbose           Per-page progress output")
	fmt.Println("  -s, -silent            Errors only")
	fmt.Println("  -nc, -no-color         Disable colored output")
	fmt.Println()
	fmt.Println(ui.SectionStyle.Render("EXAMPLES"))
	fmt.Println()
	fmt.Println("  benchsheet CIS_Ubuntu_Linux_22.04_LTS_Benchmark_v2.0.0.pdf")
	fmt.Println("  benchsheet bench.pdf audit.xlsx -export csv,md,pdf")
	fmt.Println("  benchsheet bench.pdf -export table -silent")
	fmt.Println("  benchsheet sections -write names.yaml")
	fmt.Println()
}
