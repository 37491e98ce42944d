package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Version information - these can be overridden at build time via ldflags:
// go build -ldflags "-X github.com/benchsheet/benchsheet/pkg/ui.Version=1.2.0"
var (
	Version   = "1.2.0"
	BuildDate = "unknown"
	Commit    = "dev"
)

const Author = "benchsheet contributors"

// SetVersionInfo overrides the build metadata shown by the banner and the
// version subcommand. Called from main with ldflags-injected values.
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		Commit = commit
	}
	if date != "" {
		BuildDate = date
	}
}

// Global UI state
var (
	silentMode  bool
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetSilent enables or disables silent mode (suppresses most output)
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is enabled
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		// Use ASCII profile to disable colors
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

// ASCII art banner
const bannerArt = `
 _                     _         _               _
| |__   ___ _ __   ___| |__  ___| |__   ___  ___| |_
| '_ \ / _ \ '_ \ / __| '_ \/ __| '_ \ / _ \/ _ \ __|
| |_) |  __/ | | | (__| | | \__ \ | | |  __/  __/ |_
|_.__/ \___|_| |_|\___|_| |_|___/_| |_|\___|\___|\__|
`

// Separator line
const bannerSeparator = "________________________________________________"

// PrintBanner prints the application banner with version info to stderr.
func PrintBanner() {
	if IsSilent() {
		return
	}
	lines := strings.Split(bannerArt, "\n")
	for _, line := range lines {
		if line != "" {
			fmt.Fprintln(os.Stderr, BannerStyle.Render(line))
		}
	}

	// Version line centered below banner
	fmt.Fprintf(os.Stderr, "                      v%s\n\n", VersionStyle.Render(Version))
}

// PrintMiniBanner prints a one-line banner for constrained environments.
func PrintMiniBanner() {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", BannerStyle.Render(fmt.Sprintf("benchsheet v%s", Version)))
	fmt.Fprintln(os.Stderr)
}

// PrintVersion prints the full version block to stdout.
// Used by the version subcommand, so it stays visible in silent mode.
func PrintVersion() {
	fmt.Printf("benchsheet version %s\n", Version)
	fmt.Printf("  commit:     %s\n", Commit)
	fmt.Printf("  build date: %s\n", BuildDate)
}

// printOption prints a configuration option in aligned form
// Format:  :: Option              : Value
func printOption(name, value string) {
	fmt.Fprintf(os.Stderr, " :: %-20s : %s\n", ConfigLabelStyle.Render(name), ConfigValueStyle.Render(value))
}

// PrintConfigBanner prints the run configuration before conversion starts.
// Uses ordered keys for consistent display
func PrintConfigBanner(options map[string]string) {
	if IsSilent() {
		return
	}

	// Define display order for config options
	order := []string{
		"Input", "Output", "Sections", "Exports", "Export Base",
		"Template", "Verbose",
	}

	// Print in defined order first
	printed := make(map[string]bool)
	for _, name := range order {
		if value, ok := options[name]; ok && value != "" {
			printOption(name, value)
			printed[name] = true
		}
	}

	// Print any remaining options not in the order list
	for name, value := range options {
		if !printed[name] && value != "" {
			printOption(name, value)
		}
	}

	fmt.Fprintf(os.Stderr, "%s\n\n", DividerStyle.Render(bannerSeparator))
}

// PrintDivider prints a stylized divider (to stderr)
func PrintDivider() {
	if IsSilent() {
		return
	}
	divider := strings.Repeat("-", 75)
	fmt.Fprintln(os.Stderr, DividerStyle.Render(divider))
}

// PrintSection prints a section header (to stderr)
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, SectionStyle.Render("> "+SanitizeString(title)))
	PrintDivider()
}

// PrintHelp prints contextual help (to stderr)
func PrintHelp(text string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, HelpStyle.Render("  [i] "+SanitizeString(text)))
}

// PrintSuccess prints a success message (to stderr)
func PrintSuccess(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, PassStyle.Render("  [+] "+SanitizeString(message)))
}

// PrintError prints an error message (to stderr)
// Errors stay visible in silent mode.
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, FailStyle.Render("  [X] "+SanitizeString(message)))
}

// PrintWarning prints a warning message (to stderr)
func PrintWarning(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(os.Stderr, WarnStyle.Render("  [!] "+SanitizeString(message)))
}

// PrintInfo prints an info message (to stderr)
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n", InfoStyle.Render("*"), SanitizeString(message))
}

// PrintStat prints a labeled count line (to stderr)
func PrintStat(label string, value int) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s %s\n",
		StatLabelStyle.Render(label+":"),
		StatValueStyle.Render(fmt.Sprintf("%d", value)),
	)
}
