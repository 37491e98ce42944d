package writers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
	"github.com/benchsheet/benchsheet/pkg/sections"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*TableWriter)(nil)

// ANSI color constants for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorGreen  = "\033[92m"
	colorYellow = "\033[93m"
)

// colorEnabled controls whether ANSI color codes are emitted.
var colorEnabled = true

// ansiSprint wraps text in an ANSI escape code, respecting colorEnabled.
func ansiSprint(code string, a ...interface{}) string {
	s := fmt.Sprint(a...)
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

// Color functions using ANSI escape codes for terminal colorization.
var (
	fmtAutomated = func(a ...interface{}) string { return ansiSprint(colorGreen, a...) }
	fmtManual    = func(a ...interface{}) string { return ansiSprint(colorYellow, a...) }
	fmtBold      = func(a ...interface{}) string { return ansiSprint(colorBold, a...) }
	fmtDim       = func(a ...interface{}) string { return ansiSprint(colorDim, a...) }
)

// colorStatus returns a colorized audit status string.
func colorStatus(status string) string {
	switch strings.TrimSpace(status) {
	case cis.StatusAutomated, cis.StatusScored:
		return fmtAutomated(status)
	case cis.StatusManual, cis.StatusNotScored:
		return fmtManual(status)
	default:
		return status
	}
}

// boxChars contains Unicode box-drawing characters.
var boxChars = struct {
	TopLeft, TopRight, BottomLeft, BottomRight, Horizontal, Vertical string
}{
	"┌", "┐", "└", "┘", "─", "│",
}

// asciiChars contains ASCII fallback characters for box drawing.
var asciiChars = struct {
	TopLeft, TopRight, BottomLeft, BottomRight, Horizontal, Vertical string
}{
	"+", "+", "+", "+", "-", "|",
}

// TableConfig configures the table writer behavior.
type TableConfig struct {
	// ColorEnabled enables ANSI color output.
	// If not explicitly set, it is auto-detected from the terminal.
	ColorEnabled bool

	// NoColor forces colors off regardless of terminal detection.
	NoColor bool

	// DisableUnicode forces the ASCII box-drawing fallback. Unicode is
	// also disabled automatically when the console cannot render it.
	DisableUnicode bool

	// Width sets the table width (0 = auto-detect from terminal).
	Width int

	// Names resolves section numbers to display names
	// (default: sections.Default()).
	Names *sections.Config
}

// TableWriter renders the checklist as a framed terminal table, one block
// of rows per benchmark section with a totals line at the bottom. It
// buffers all records and renders on Close. The writer is safe for
// concurrent use.
type TableWriter struct {
	w       io.Writer
	mu      sync.Mutex
	config  TableConfig
	records []cis.Recommendation
	summary *report.Summary
	chars   *struct {
		TopLeft, TopRight, BottomLeft, BottomRight, Horizontal, Vertical string
	}
	widths columnWidths
}

// columnWidths stores calculated column widths for responsive table layout.
type columnWidths struct {
	num    int
	title  int
	level  int
	status int
}

// NewTableWriter creates a new table writer with the specified
// configuration. If ColorEnabled is not explicitly set, it auto-detects
// terminal support.
func NewTableWriter(w io.Writer, config TableConfig) *TableWriter {
	if config.NoColor {
		config.ColorEnabled = false
	} else if !config.ColorEnabled {
		config.ColorEnabled = detectColorSupport(w)
	}
	colorEnabled = config.ColorEnabled

	if config.Names == nil {
		config.Names = sections.Default()
	}

	chars := &boxChars
	if config.DisableUnicode || !unicodeSupported(w) {
		chars = &asciiChars
	}

	tw := &TableWriter{
		w:       w,
		config:  config,
		records: make([]cis.Recommendation, 0),
		chars:   chars,
	}
	tw.calculateColumnWidths()

	return tw
}

// detectColorSupport checks if the writer supports ANSI colors.
func detectColorSupport(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// WriteRecord buffers a recommendation for the rendered table.
func (tw *TableWriter) WriteRecord(rec *cis.Recommendation) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.records = append(tw.records, *rec)
	return nil
}

// WriteSummary stores the run summary for the totals block.
func (tw *TableWriter) WriteSummary(s *report.Summary) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.summary = s
	return nil
}

// Flush is a no-op for the table writer.
func (tw *TableWriter) Flush() error {
	return nil
}

// Close renders and writes the complete table.
// If the underlying writer implements io.Closer, it will be closed.
func (tw *TableWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	sb := &strings.Builder{}
	tw.renderTable(sb)

	if _, err := io.WriteString(tw.w, sb.String()); err != nil {
		return fmt.Errorf("table: write: %w", err)
	}

	if closer, ok := tw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (tw *TableWriter) renderTable(sb *strings.Builder) {
	title := "CIS Audit Checklist"
	if tw.summary != nil && tw.summary.Heading != "" {
		title = tw.summary.Heading
	}

	tw.writeTableHeader(sb, title)

	groups := cis.GroupBySection(tw.records)
	for _, g := range groups {
		tw.writeSectionRows(sb, g)
	}
	if len(groups) == 0 {
		tw.writeLine(sb, fmtDim("no controls extracted"))
	}

	tw.writeTotals(sb)
	tw.writeTableFooter(sb)
}

// writeTableHeader writes the top border and centered title.
func (tw *TableWriter) writeTableHeader(sb *strings.Builder, title string) {
	width := tw.getWidth()
	chars := tw.chars

	sb.WriteString(chars.TopLeft)
	sb.WriteString(strings.Repeat(chars.Horizontal, width-2))
	sb.WriteString(chars.TopRight)
	sb.WriteString("\n")

	titleLine := centerText(title, width-4)
	sb.WriteString(chars.Vertical)
	sb.WriteString(" ")
	if tw.config.ColorEnabled {
		sb.WriteString(colorBold)
	}
	sb.WriteString(titleLine)
	if tw.config.ColorEnabled {
		sb.WriteString(colorReset)
	}
	sb.WriteString(" ")
	sb.WriteString(chars.Vertical)
	sb.WriteString("\n")

	sb.WriteString(chars.Vertical)
	sb.WriteString(strings.Repeat(chars.Horizontal, width-2))
	sb.WriteString(chars.Vertical)
	sb.WriteString("\n")
}

// writeTableFooter writes the bottom border.
func (tw *TableWriter) writeTableFooter(sb *strings.Builder) {
	width := tw.getWidth()
	chars := tw.chars

	sb.WriteString(chars.BottomLeft)
	sb.WriteString(strings.Repeat(chars.Horizontal, width-2))
	sb.WriteString(chars.BottomRight)
	sb.WriteString("\n")
}

// writeLine writes one framed content line, padding to the table width.
// ANSI codes are stripped for length so colored text stays aligned.
func (tw *TableWriter) writeLine(sb *strings.Builder, text string) {
	width := tw.getWidth()
	chars := tw.chars

	pad := width - 4 - len([]rune(stripANSI(text)))
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(chars.Vertical)
	sb.WriteString(" ")
	sb.WriteString(text)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(" ")
	sb.WriteString(chars.Vertical)
	sb.WriteString("\n")
}

func (tw *TableWriter) writeSectionRows(sb *strings.Builder, g cis.Group) {
	name := tw.config.Names.Name(g.Section)
	tw.writeLine(sb, "")
	tw.writeLine(sb, fmtBold(fmt.Sprintf("%s. %s", g.Section, name)))
	tw.writeColumnHeader(sb)

	for _, rec := range g.Records {
		tw.writeRecordRow(sb, rec)
	}
}

func (tw *TableWriter) writeColumnHeader(sb *strings.Builder) {
	w := tw.widths
	head := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		w.num, "#", w.title, "Title", w.level, "Level", w.status, "Status")
	tw.writeLine(sb, fmtDim(head))
}

func (tw *TableWriter) writeRecordRow(sb *strings.Builder, rec cis.Recommendation) {
	w := tw.widths

	// Level 1 wins when a profile names both, same as the workbook.
	level := ""
	switch {
	case strings.Contains(rec.Profile, "Level 1"):
		level = "Level 1"
	case strings.Contains(rec.Profile, "Level 2"):
		level = "Level 2"
	}

	// Pad before colorizing so ANSI codes do not skew alignment.
	status := fmt.Sprintf("%-*s", w.status, truncateField(rec.Status, w.status))
	row := fmt.Sprintf("%-*s %-*s %-*s %s",
		w.num, truncateField(rec.Num, w.num),
		w.title, truncateField(rec.Title, w.title),
		w.level, level,
		colorStatus(status))
	tw.writeLine(sb, row)
}

func (tw *TableWriter) writeTotals(sb *strings.Builder) {
	automated, manual := 0, 0
	for _, rec := range tw.records {
		switch rec.Status {
		case cis.StatusAutomated, cis.StatusScored:
			automated++
		case cis.StatusManual, cis.StatusNotScored:
			manual++
		}
	}

	width := tw.getWidth()
	chars := tw.chars
	sb.WriteString(chars.Vertical)
	sb.WriteString(strings.Repeat(chars.Horizontal, width-2))
	sb.WriteString(chars.Vertical)
	sb.WriteString("\n")

	totals := fmt.Sprintf("Controls: %s   Automated: %s   Manual: %s",
		fmtBold(fmt.Sprint(len(tw.records))),
		fmtAutomated(fmt.Sprint(automated)),
		fmtManual(fmt.Sprint(manual)))
	tw.writeLine(sb, totals)

	if tw.summary != nil && tw.summary.OutputPath != "" {
		tw.writeLine(sb, fmtDim("Workbook: "+tw.summary.OutputPath))
	}
}

// getWidth returns the configured or detected table width.
func (tw *TableWriter) getWidth() int {
	if tw.config.Width > 0 {
		return tw.config.Width
	}
	return getTerminalWidth(tw.w)
}

// getTerminalWidth detects the terminal width from the writer or returns
// a default.
func getTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}

	// Default width for non-terminal or detection failure.
	return 100
}

// calculateColumnWidths sizes the columns for the current table width.
// The title column absorbs the remaining space and is truncated last.
func (tw *TableWriter) calculateColumnWidths() {
	const (
		minNum     = 9
		minLevel   = 8
		minStatus  = 10
		minTitle   = 24
		separators = 7 // frame and column gaps
	)

	width := tw.getWidth()
	tw.widths = columnWidths{num: minNum, level: minLevel, status: minStatus}

	title := width - minNum - minLevel - minStatus - separators
	if title < minTitle {
		title = minTitle
	}
	tw.widths.title = title
}

// centerText centers text within the given width, truncating if needed.
func centerText(text string, width int) string {
	if len([]rune(text)) >= width {
		return truncateField(text, width)
	}
	padding := (width - len([]rune(text))) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len([]rune(text))-padding)
}

// stripANSI removes ANSI escape codes from a string for length calculation.
func stripANSI(s string) string {
	result := s
	for {
		start := strings.Index(result, "\033[")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "m")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}
	return result
}
