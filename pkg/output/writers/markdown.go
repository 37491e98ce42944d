package writers

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
	"github.com/benchsheet/benchsheet/pkg/sections"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*MarkdownWriter)(nil)

// MarkdownConfig configures the Markdown checklist writer.
type MarkdownConfig struct {
	// Title overrides the document title. Default is the benchmark
	// heading from the summary, falling back to "CIS Audit Checklist".
	Title string

	// Names resolves section numbers to display names
	// (default: sections.Default()).
	Names *sections.Config

	// IncludeTOC includes a linked table of contents.
	IncludeTOC bool

	// IncludeRemediation adds a remediation column to the per-section
	// tables.
	IncludeRemediation bool

	// MaxFieldLen truncates audit and remediation cells to this many
	// runes (default 200).
	MaxFieldLen int
}

// MarkdownWriter writes records as a Markdown audit checklist.
// It buffers all records in memory and renders the complete document on
// Close: a metadata header, one table per benchmark section, and a summary
// tail. The writer is safe for concurrent use.
type MarkdownWriter struct {
	w       io.Writer
	mu      sync.Mutex
	config  MarkdownConfig
	records []cis.Recommendation
	summary *report.Summary
}

// NewMarkdownWriter creates a new Markdown checklist writer.
// The writer buffers all records and writes the document on Close.
func NewMarkdownWriter(w io.Writer, config MarkdownConfig) *MarkdownWriter {
	if config.Names == nil {
		config.Names = sections.Default()
	}
	if config.MaxFieldLen == 0 {
		config.MaxFieldLen = 200
	}
	return &MarkdownWriter{
		w:       w,
		config:  config,
		records: make([]cis.Recommendation, 0),
	}
}

// WriteRecord buffers a recommendation for later document output.
func (mw *MarkdownWriter) WriteRecord(rec *cis.Recommendation) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.records = append(mw.records, *rec)
	return nil
}

// WriteSummary stores the run summary for the document tail.
func (mw *MarkdownWriter) WriteSummary(s *report.Summary) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.summary = s
	return nil
}

// Flush is a no-op for the Markdown writer.
// The document is rendered as a whole on Close.
func (mw *MarkdownWriter) Flush() error {
	return nil
}

// Close renders and writes the complete Markdown document.
// If the underlying writer implements io.Closer, it will be closed.
func (mw *MarkdownWriter) Close() error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	sb := &strings.Builder{}
	mw.renderMarkdown(sb)

	if _, err := io.WriteString(mw.w, sb.String()); err != nil {
		return fmt.Errorf("failed to write Markdown: %w", err)
	}

	if closer, ok := mw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// cellEscaper keeps multiline benchmark text inside a single table cell.
var cellEscaper = strings.NewReplacer(
	"|", "\\|",
	"\n", "<br>",
	"\r", "",
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

// githubAnchor converts a section heading to a GitHub anchor fragment:
// lowercase, punctuation stripped, spaces as hyphens.
func githubAnchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (mw *MarkdownWriter) renderMarkdown(sb *strings.Builder) {
	title := mw.config.Title
	if title == "" {
		if mw.summary != nil && mw.summary.Heading != "" {
			title = mw.summary.Heading
		} else {
			title = "CIS Audit Checklist"
		}
	}

	// Records arrive in benchmark order, so groups emerge sorted.
	groups := cis.GroupBySection(mw.records)

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if mw.summary != nil {
		sb.WriteString(fmt.Sprintf("*Audit Checklist - Generated on %s*\n\n",
			mw.summary.GeneratedAt.Format("2006-01-02")))
	}

	if mw.config.IncludeTOC {
		mw.renderTOC(sb, groups)
	}

	for _, g := range groups {
		mw.renderSection(sb, g)
	}

	mw.renderSummary(sb)
}

func (mw *MarkdownWriter) renderTOC(sb *strings.Builder, groups []cis.Group) {
	sb.WriteString("## Table of Contents\n\n")
	for _, g := range groups {
		heading := fmt.Sprintf("%s. %s", g.Section, mw.config.Names.Name(g.Section))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", heading, githubAnchor(heading)))
	}
	sb.WriteString("- [Summary](#summary)\n")
	sb.WriteString("\n")
}

func (mw *MarkdownWriter) renderSection(sb *strings.Builder, g cis.Group) {
	name := mw.config.Names.Name(g.Section)
	sb.WriteString(fmt.Sprintf("## %s. %s\n\n", g.Section, name))

	if mw.config.IncludeRemediation {
		sb.WriteString("| # | Title | Level | Status | Audit | Remediation |\n")
		sb.WriteString("|---|-------|-------|--------|-------|-------------|\n")
	} else {
		sb.WriteString("| # | Title | Level | Status | Audit |\n")
		sb.WriteString("|---|-------|-------|--------|-------|\n")
	}

	for _, r := range g.Records {
		audit := escapeCell(truncateField(r.Audit, mw.config.MaxFieldLen))
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |",
			r.Num, escapeCell(r.Title), escapeCell(r.Profile), r.Status, audit))
		if mw.config.IncludeRemediation {
			remediation := escapeCell(truncateField(r.Remediation, mw.config.MaxFieldLen))
			sb.WriteString(fmt.Sprintf(" %s |", remediation))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (mw *MarkdownWriter) renderSummary(sb *strings.Builder) {
	if mw.summary == nil {
		return
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	if mw.summary.Title != "" {
		sb.WriteString(fmt.Sprintf("| Benchmark | %s |\n", escapeCell(mw.summary.Title)))
	}
	if mw.summary.Version != "" {
		sb.WriteString(fmt.Sprintf("| Version | %s |\n", mw.summary.Version))
	}
	sb.WriteString(fmt.Sprintf("| Total Controls | %d |\n", mw.summary.TotalControls))
	sb.WriteString(fmt.Sprintf("| Total Sheets | %d |\n", mw.summary.TotalSheets))
	sb.WriteString("\n")

	if len(mw.summary.Sections) == 0 {
		return
	}

	sb.WriteString("### Controls by Section\n\n")
	sb.WriteString("| Section | Name | Controls |\n")
	sb.WriteString("|---------|------|----------|\n")
	for _, sc := range mw.summary.Sections {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", sc.Section, escapeCell(sc.Name), sc.Count))
	}
	sb.WriteString("\n")
}
