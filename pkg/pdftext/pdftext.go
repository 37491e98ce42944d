// Package pdftext reads benchmark PDFs and rebuilds per-page plain text
// with line structure preserved.
//
// The generic GetPlainText helpers flatten a page into one string and lose
// the line breaks that header and label anchoring depend on, so this package
// works from positioned glyphs instead: it groups them into rows by Y
// coordinate, orders rows top to bottom, and joins glyphs left to right with
// a space wherever the horizontal gap indicates a word boundary.
package pdftext

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/benchsheet/benchsheet/pkg/extract"
)

// ErrNotPDF reports that a file exists but cannot be parsed as a PDF
// document.
var ErrNotPDF = errors.New("not a PDF file")

const (
	// rowTolerance is the maximum Y distance between glyphs considered to
	// sit on the same text row. Benchmark PDFs keep baselines within a
	// couple of points of jitter.
	rowTolerance = 2.0

	// wordGapFactor scales the font size into the minimum horizontal gap
	// that separates two words on a row.
	wordGapFactor = 0.3

	// fallbackWordGap is used when a glyph carries no font size.
	fallbackWordGap = 3.0
)

// Document is an open PDF file exposing per-page text.
type Document struct {
	f *os.File
	r *pdf.Reader
}

var _ extract.Source = (*Document)(nil)

// Open opens the PDF at path. File system errors (missing file, bad
// permissions) pass through unchanged; anything else means the file is not
// parseable as a PDF and wraps ErrNotPDF.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNotPDF, err)
	}
	return &Document{f: f, r: r}, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	return d.f.Close()
}

// NumPages returns the page count from the document catalog.
func (d *Document) NumPages() int {
	return d.r.NumPage()
}

// PageText returns the reconstructed text of the 0-based page index.
// Malformed content streams make the underlying parser panic; that is
// recovered here and reported as an error so callers can skip the page.
func (d *Document) PageText(i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: content parse: %v", i+1, r)
		}
	}()

	page := d.r.Page(i + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", i+1)
	}

	rows := groupRows(page.Content().Text)
	return Normalize(renderRows(rows)), nil
}

// textRow collects the glyphs sharing one baseline. The anchor Y is the
// first glyph's; later glyphs within rowTolerance of it join the row.
type textRow struct {
	y     float64
	cells []pdf.Text
}

// groupRows buckets positioned glyphs into rows and orders them for
// reading: rows top to bottom (PDF Y grows upward), glyphs left to right.
// Sorting is stable so glyphs emitted at the same position keep their
// stream order.
func groupRows(texts []pdf.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].cells = append(rows[i].cells, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, cells: []pdf.Text{t}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		cells := rows[i].cells
		sort.SliceStable(cells, func(a, b int) bool { return cells[a].X < cells[b].X })
	}
	return rows
}

// renderRows joins rows with newlines and glyphs with spaces where the
// horizontal gap exceeds the word threshold for the glyph's font size.
func renderRows(rows []textRow) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		var lastEnd float64
		for j, t := range row.cells {
			if j > 0 {
				threshold := wordGapFactor * t.FontSize
				if threshold <= 0 {
					threshold = fallbackWordGap
				}
				if t.X-lastEnd > threshold {
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.S)
			if end := t.X + t.W; end > lastEnd {
				lastEnd = end
			}
		}
	}
	return b.String()
}
