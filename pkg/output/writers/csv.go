// Package writers provides export writers for flat output formats.
package writers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*CSVWriter)(nil)

// UTF-8 BOM for Excel compatibility.
const utf8BOM = "\xEF\xBB\xBF"

// CSVWriter writes recommendations as CSV rows.
// Each row is a single audit control, making the export ideal for data
// analysis in Excel, pandas, or database imports.
//
// Features:
//   - One column per record field, named after the JSON field names
//   - Excel compatibility with UTF-8 BOM
//   - CSV injection prevention (formula sanitization)
//   - Summary block on close
type CSVWriter struct {
	w         io.Writer
	csvWriter *csv.Writer
	mu        sync.Mutex
	opts      CSVOptions
	summary   *report.Summary // Store summary for Close()
}

// CSVOptions configures the CSV writer behavior.
type CSVOptions struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool

	// Delimiter sets the field delimiter character.
	// Default is comma when zero value.
	Delimiter rune

	// ExcelCompatible adds UTF-8 BOM for Excel compatibility.
	// This ensures proper display of Unicode characters in Excel.
	ExcelCompatible bool

	// SanitizeFormulas prevents CSV injection by prefixing dangerous characters.
	// Dangerous characters: = + - @ TAB CR
	SanitizeFormulas bool

	// TruncateAt limits field length in runes (0 = no limit).
	TruncateAt int
}

// csvColumns defines the CSV column headers.
// Order follows the audit workflow: identify, understand, act.
var csvColumns = []string{
	// Identification
	"num",     // Benchmark control number (1.1.1)
	"title",   // Control title
	"profile", // Applicability profile (Level 1 - Server, ...)
	"status",  // Automated / Manual / Scored / Not Scored
	"section", // Top-level section number

	// Context
	"description", // What the control configures
	"rationale",   // Why it matters
	"impact",      // Operational impact of applying it

	// Action
	"audit",         // Audit procedure
	"remediation",   // Fix guidance
	"default_value", // Vendor default
	"references",    // External references
}

// sanitizeForCSV prevents CSV injection by prefixing dangerous characters.
// This is a SECURITY feature to prevent formula execution in spreadsheets.
func sanitizeForCSV(s string) string {
	if len(s) == 0 {
		return s
	}
	// Characters that can trigger formula execution in spreadsheets
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s // Prefix with single quote
	}
	return s
}

// truncateField truncates a field to the specified rune length.
func truncateField(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 3 {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes[:maxLen])
}

// NewCSVWriter creates a new CSV writer.
// If IncludeHeader is true, a header row is written immediately.
// If ExcelCompatible is true, a UTF-8 BOM is written for proper Excel display.
// The writer is safe for concurrent use.
func NewCSVWriter(w io.Writer, opts CSVOptions) *CSVWriter {
	// Write UTF-8 BOM for Excel compatibility
	if opts.ExcelCompatible {
		_, _ = w.Write([]byte(utf8BOM))
	}

	csvWriter := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		csvWriter.Comma = opts.Delimiter
	}

	cw := &CSVWriter{
		w:         w,
		csvWriter: csvWriter,
		opts:      opts,
	}

	if opts.IncludeHeader {
		_ = csvWriter.Write(csvColumns)
		csvWriter.Flush()
	}

	return cw
}

// WriteRecord writes a single recommendation as a CSV row.
func (cw *CSVWriter) WriteRecord(rec *cis.Recommendation) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Build row with all columns (matches csvColumns order)
	row := []string{
		rec.Num,
		rec.Title,
		rec.Profile,
		rec.Status,
		rec.Section(),
		rec.Description,
		rec.Rationale,
		rec.Impact,
		rec.Audit,
		rec.Remediation,
		rec.DefaultValue,
		rec.References,
	}

	// Apply sanitization and truncation
	for i, field := range row {
		if cw.opts.SanitizeFormulas {
			field = sanitizeForCSV(field)
		}
		if cw.opts.TruncateAt > 0 {
			field = truncateField(field, cw.opts.TruncateAt)
		}
		row[i] = field
	}

	return cw.csvWriter.Write(row)
}

// WriteSummary captures the run summary for output on Close().
func (cw *CSVWriter) WriteSummary(s *report.Summary) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.summary = s
	return nil
}

// Flush flushes the CSV writer's internal buffer.
func (cw *CSVWriter) Flush() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.csvWriter.Flush()
	return cw.csvWriter.Error()
}

// Close flushes the CSV writer and writes the summary block if available.
// If the underlying writer implements io.Closer, it will be closed.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.summary != nil {
		cw.writeSummaryLocked()
	}

	cw.csvWriter.Flush()
	if err := cw.csvWriter.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}

	if closer, ok := cw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// writeSummaryLocked writes a summary section at the end of the CSV.
// Must be called with mu held.
func (cw *CSVWriter) writeSummaryLocked() {
	if cw.summary == nil {
		return
	}

	// Blank row as separator
	_ = cw.csvWriter.Write([]string{})

	_ = cw.csvWriter.Write([]string{"# SUMMARY"})
	_ = cw.csvWriter.Write([]string{"Benchmark", cw.summary.Title})
	_ = cw.csvWriter.Write([]string{"Version", cw.summary.Version})
	_ = cw.csvWriter.Write([]string{"Total Controls", strconv.Itoa(cw.summary.TotalControls)})
	_ = cw.csvWriter.Write([]string{"Total Sheets", strconv.Itoa(cw.summary.TotalSheets)})
	_ = cw.csvWriter.Write([]string{"Generated", cw.summary.GeneratedAt.Format("2006-01-02")})
}
