package writers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
	"github.com/benchsheet/benchsheet/pkg/sections"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*PDFWriter)(nil)

// PDFConfig configures the PDF checklist writer.
type PDFConfig struct {
	// Title overrides the cover title (default: benchmark heading from
	// the summary, falling back to "CIS Benchmark").
	Title string

	// Subtitle printed under the cover title (default "Audit Checklist").
	Subtitle string

	// Author appears in the document metadata and on the cover.
	Author string

	// Classification badge printed on the cover ("INTERNAL", ...).
	Classification string

	// FooterText overrides the page footer
	// (default "Generated by benchsheet").
	FooterText string

	// IncludeTOC adds a section table of contents page.
	IncludeTOC bool

	// IncludeRemediation includes remediation text in control blocks.
	IncludeRemediation bool

	// Names resolves section numbers to display names
	// (default: sections.Default()).
	Names *sections.Config

	// PageSize is "A4" or "Letter" (default "A4").
	PageSize string

	// Orientation is "P" (portrait) or "L" (landscape), default "P".
	Orientation string
}

// PDFWriter renders records as a printable audit checklist PDF:
// cover page, optional table of contents, one block per control grouped by
// section, and a closing summary table. Colors follow the workbook palette
// so the two outputs read as one report family.
//
// The writer buffers all records in memory and renders the document on
// Close. It is safe for concurrent use.
type PDFWriter struct {
	w       io.Writer
	mu      sync.Mutex
	config  PDFConfig
	records []cis.Recommendation
	summary *report.Summary

	// noCompress disables stream compression; tests flip it so rendered
	// text is searchable in the raw output.
	noCompress bool
}

// NewPDFWriter creates a new PDF checklist writer that writes to w on
// Close.
func NewPDFWriter(w io.Writer, config PDFConfig) *PDFWriter {
	if config.Subtitle == "" {
		config.Subtitle = "Audit Checklist"
	}
	if config.FooterText == "" {
		config.FooterText = "Generated by benchsheet"
	}
	if config.PageSize == "" {
		config.PageSize = "A4"
	}
	if config.Orientation == "" {
		config.Orientation = "P"
	}
	if config.Names == nil {
		config.Names = sections.Default()
	}
	return &PDFWriter{
		w:       w,
		config:  config,
		records: make([]cis.Recommendation, 0),
	}
}

// WriteRecord buffers a recommendation for later rendering.
func (pw *PDFWriter) WriteRecord(rec *cis.Recommendation) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.records = append(pw.records, *rec)
	return nil
}

// WriteSummary stores the run summary for the cover and summary pages.
func (pw *PDFWriter) WriteSummary(s *report.Summary) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.summary = s
	return nil
}

// Flush is a no-op for the PDF writer.
// The document is rendered as a whole on Close.
func (pw *PDFWriter) Flush() error {
	return nil
}

// Close renders the document and writes it out.
// If the underlying writer implements io.Closer, it will be closed.
func (pw *PDFWriter) Close() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pdf := pw.render()
	if err := pdf.Output(pw.w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}

	if closer, ok := pw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// hexRGB converts an RRGGBB hex color (the workbook palette format) to its
// RGB components. Invalid input yields mid gray.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

// flattenProfile joins multi-line profile text into one display line,
// dropping the bullet markers benchmarks use.
func flattenProfile(profile string) string {
	lines := strings.Split(profile, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		line = strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, ", ")
}

func (pw *PDFWriter) title() string {
	if pw.config.Title != "" {
		return pw.config.Title
	}
	if pw.summary != nil && pw.summary.Heading != "" {
		return pw.summary.Heading
	}
	return "CIS Benchmark"
}

func (pw *PDFWriter) render() *gofpdf.Fpdf {
	pdf := gofpdf.New(pw.config.Orientation, "mm", pw.config.PageSize, "")
	if pw.noCompress {
		pdf.SetCompression(false)
	}
	pdf.SetTitle(pw.title(), true)
	if pw.config.Author != "" {
		pdf.SetAuthor(pw.config.Author, true)
	}
	pdf.SetCreator("benchsheet", true)

	footer := pw.config.FooterText
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s  |  Page %d of {nb}", footer, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	groups := cis.GroupBySection(pw.records)

	pw.addCoverPage(pdf, groups)
	if pw.config.IncludeTOC {
		pw.addTableOfContents(pdf, groups)
	}
	for _, g := range groups {
		pw.addSection(pdf, g)
	}
	pw.addSummaryPage(pdf, groups)

	return pdf
}

// usableWidth returns the page width between the side margins.
func usableWidth(pdf *gofpdf.Fpdf) float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return pageW - left - right
}

// addSectionHeader renders a full-width banner in the workbook's section
// title color.
func (pw *PDFWriter) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	r, g, b := hexRGB(defaults.ColorSectionTitle)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(4)
}

func (pw *PDFWriter) addCoverPage(pdf *gofpdf.Fpdf, groups []cis.Group) {
	pdf.AddPage()

	r, g, b := hexRGB(defaults.ColorIndexTitle)
	pdf.SetY(60)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(r, g, b)
	pdf.MultiCell(0, 12, pw.title(), "", "C", false)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 8, pw.config.Subtitle, "", 1, "C", false, 0, "")

	generated := time.Now()
	if pw.summary != nil && !pw.summary.GeneratedAt.IsZero() {
		generated = pw.summary.GeneratedAt
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 8, "Generated on "+generated.Format("2006-01-02"), "", 1, "C", false, 0, "")

	if pw.config.Author != "" {
		pdf.CellFormat(0, 6, "Prepared by "+pw.config.Author, "", 1, "C", false, 0, "")
	}

	if pw.config.Classification != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(220, 38, 38)
		pdf.SetTextColor(255, 255, 255)
		badgeW := 60.0
		pageW, _ := pdf.GetPageSize()
		pdf.SetX((pageW - badgeW) / 2)
		pdf.CellFormat(badgeW, 9, pw.config.Classification, "", 1, "C", true, 0, "")
	}

	// Totals box.
	half := usableWidth(pdf) / 2
	hr, hg, hb := hexRGB(defaults.ColorHeader)
	pdf.SetY(150)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(hr, hg, hb)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(half, 9, "Controls", "1", 0, "C", true, 0, "")
	pdf.CellFormat(half, 9, "Sections", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(half, 9, fmt.Sprintf("%d", len(pw.records)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(half, 9, fmt.Sprintf("%d", len(groups)), "1", 1, "C", false, 0, "")
}

func (pw *PDFWriter) addTableOfContents(pdf *gofpdf.Fpdf, groups []cis.Group) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Table of Contents")

	pdf.SetFont("Helvetica", "", 11)
	for _, g := range groups {
		pdf.SetTextColor(60, 60, 60)
		name := pw.config.Names.Name(g.Section)
		pdf.CellFormat(130, 8, fmt.Sprintf("%s. %s", g.Section, name), "", 0, "L", false, 0, "")
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("%d controls", len(g.Records)), "", 1, "R", false, 0, "")
	}
}

func (pw *PDFWriter) addSection(pdf *gofpdf.Fpdf, g cis.Group) {
	pdf.AddPage()
	name := pw.config.Names.Name(g.Section)
	pw.addSectionHeader(pdf, fmt.Sprintf("%s. %s", g.Section, name))

	for i, rec := range g.Records {
		if i > 0 {
			pdf.Ln(3)
		}
		pw.addRecordBlock(pdf, rec)
	}
}

// addRecordBlock renders one control as a titled run of labeled fields.
func (pw *PDFWriter) addRecordBlock(pdf *gofpdf.Fpdf, rec cis.Recommendation) {
	_, pageH := pdf.GetPageSize()
	// Keep the title with at least one field before the footer area.
	if pdf.GetY()+30 > pageH-25 {
		pdf.AddPage()
	}

	tr, tg, tb := hexRGB(defaults.ColorSectionTitle)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(tr, tg, tb)
	pdf.MultiCell(0, 6, fmt.Sprintf("%s  %s", rec.Num, rec.Title), "", "L", false)

	pw.addProfileLine(pdf, rec)

	pw.addFieldBlock(pdf, "DESCRIPTION", rec.Description)
	pw.addFieldBlock(pdf, "AUDIT", rec.Audit)
	if pw.config.IncludeRemediation {
		pw.addFieldBlock(pdf, "REMEDIATION", rec.Remediation)
	}
	pw.addFieldBlock(pdf, "DEFAULT VALUE", rec.DefaultValue)
}

// addProfileLine renders the level chip, the flattened profile text, and
// the audit status. Level 1 wins when a profile names both levels, same as
// the workbook highlight.
func (pw *PDFWriter) addProfileLine(pdf *gofpdf.Fpdf, rec cis.Recommendation) {
	pdf.SetFont("Helvetica", "B", 8)
	switch {
	case strings.Contains(rec.Profile, "Level 1"):
		r, g, b := hexRGB(defaults.ColorLevel1)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(18, 5, "Level 1", "", 0, "C", true, 0, "")
	case strings.Contains(rec.Profile, "Level 2"):
		r, g, b := hexRGB(defaults.ColorLevel2)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(18, 5, "Level 2", "", 0, "C", true, 0, "")
	}

	line := flattenProfile(rec.Profile)
	if rec.Status != "" {
		if line != "" {
			line += "  "
		}
		line += "(" + rec.Status + ")"
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "  "+line, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// addFieldBlock renders a labeled free-text field, skipping empty text.
func (pw *PDFWriter) addFieldBlock(pdf *gofpdf.Fpdf, label, text string) {
	if text == "" {
		return
	}
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+12 > pageH-25 {
		pdf.AddPage()
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.MultiCell(0, 4.5, text, "", "L", false)
	pdf.Ln(1)
}

func (pw *PDFWriter) addSummaryPage(pdf *gofpdf.Fpdf, groups []cis.Group) {
	pdf.AddPage()
	pw.addSectionHeader(pdf, "Summary")

	if len(pw.records) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, "No controls extracted.", "", 1, "L", false, 0, "")
		return
	}

	hr, hg, hb := hexRGB(defaults.ColorHeader)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(hr, hg, hb)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(25, 8, "Section", "1", 0, "C", true, 0, "")
	pdf.CellFormat(105, 8, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 8, "Controls", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, g := range groups {
		if i%2 == 0 {
			pdf.SetFillColor(245, 247, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(25, 7, g.Section, "1", 0, "C", true, 0, "")
		pdf.CellFormat(105, 7, pw.config.Names.Name(g.Section), "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", len(g.Records)), "1", 1, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(130, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("%d", len(pw.records)), "1", 1, "C", false, 0, "")

	if pw.summary != nil && pw.summary.OutputPath != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, "Workbook: "+pw.summary.OutputPath, "", 1, "L", false, 0, "")
	}
}
