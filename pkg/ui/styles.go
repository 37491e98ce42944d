package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI escape codes for simple terminal output (CLI commands)
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Color palette
var (
	// Brand colors
	Primary   = lipgloss.Color("#4D96FF") // Blue - brand color
	Secondary = lipgloss.Color("#00D4AA") // Cyan/Teal

	// Status colors
	Success = lipgloss.Color("#00D26A") // Bright green
	Warning = lipgloss.Color("#FFB800") // Amber
	Error   = lipgloss.Color("#FF3838") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray

	// Profile level colors, matching the workbook chip fills
	Level1 = lipgloss.Color("#FFC000") // Amber
	Level2 = lipgloss.Color("#FFFF00") // Yellow
)

// Pre-configured styles
var (
	// Title and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Primary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Banner style
	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Version badge
	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Section headers
	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	// Configuration display
	ConfigLabelStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Width(15)

	ConfigValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA"))

	// Statistics
	StatLabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	StatValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	// Bracketed metadata
	BracketStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Outcome styles
	PassStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	FailStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	// Divider
	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Help/footer
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Info marker
	InfoStyle = lipgloss.NewStyle().
			Foreground(Primary)
)

// StatusStyle returns the style for a control status.
// Automated and Scored controls render green, Manual and Not Scored amber.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch strings.TrimSpace(status) {
	case "Automated", "Scored":
		return base.Foreground(Success)
	case "Manual", "Not Scored":
		return base.Foreground(Warning)
	default:
		return base.Foreground(Muted)
	}
}

// LevelStyle returns the badge style for an applicability profile.
// Level 1 wins when a profile names both levels.
func LevelStyle(profile string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch {
	case strings.Contains(profile, "Level 1"):
		return base.Foreground(lipgloss.Color("#000000")).Background(Level1)
	case strings.Contains(profile, "Level 2"):
		return base.Foreground(lipgloss.Color("#000000")).Background(Level2)
	default:
		return base.Foreground(Muted)
	}
}
