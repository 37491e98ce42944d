package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/benchsheet/benchsheet/pkg/defaults"
)

var indexHeaders = []string{"Section", "Section Name", "Controls", "Tab Name", "Description"}

var indexWidths = []float64{10, 32, 10, 32, 50}

var sheetHeaders = []string{
	"#", "Control Title", "Level", "Description & Impact",
	"Audit Steps (CLI & GUI)", "Remediation", "Default Value", "References/Status",
}

var sheetWidths = []float64{8, 42, 10, 55, 60, 55, 35, 40}

// WriteExcel renders the checklist and saves the workbook at path.
func WriteExcel(c *Checklist, path string) error {
	f, err := RenderExcel(c)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// RenderExcel builds the workbook in memory: the index sheet first, then
// one sheet per section in model order, with the index active.
func RenderExcel(c *Checklist) (*excelize.File, error) {
	f := excelize.NewFile()

	st, err := newStyleSet(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := renderIndex(f, st, c); err != nil {
		f.Close()
		return nil, err
	}
	for i := range c.Sheets {
		if err := renderSheet(f, st, &c.Sheets[i]); err != nil {
			f.Close()
			return nil, err
		}
	}

	// Drop the workbook's default sheet, then activate the index. The
	// lookup runs after the delete because deleting shifts sheet indexes.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	idx, err := f.GetSheetIndex(defaults.IndexSheetName)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f, nil
}

func renderIndex(f *excelize.File, st styleSet, c *Checklist) error {
	if _, err := f.NewSheet(defaults.IndexSheetName); err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: defaults.IndexSheetName}

	w.cell("A1", c.Heading)
	w.merge("A1", "E1")
	w.style("A1", "E1", st.indexTitle)
	w.height(1, defaults.TitleRowHeight)

	w.cell("A2", c.Subtitle)
	w.merge("A2", "E2")
	w.style("A2", "E2", st.indexSubtitle)
	w.height(2, defaults.SubtitleRowHeight)

	// Row 3 stays blank; headers sit on row 4.
	for i, h := range indexHeaders {
		w.cell(cellRef(i+1, 4), h)
	}
	w.style("A4", "E4", st.indexHeader)

	for i, width := range indexWidths {
		w.width(colName(i+1), width)
	}

	for i, row := range c.Index {
		r := 5 + i
		w.cell(cellRef(1, r), row.Section)
		w.cell(cellRef(2, r), row.Name)
		w.cell(cellRef(3, r), row.Controls)
		w.cell(cellRef(4, r), row.TabName)
		w.cell(cellRef(5, r), "")
		w.style(cellRef(1, r), cellRef(5, r), st.indexData)
		w.height(r, defaults.IndexDataRowHeight)
	}

	return w.err
}

func renderSheet(f *excelize.File, st styleSet, s *Sheet) error {
	if _, err := f.NewSheet(s.Name); err != nil {
		return fmt.Errorf("sheet %q: %w", s.Name, err)
	}

	w := &sheetWriter{f: f, sheet: s.Name}

	w.cell("A1", s.Title)
	w.merge("A1", "H1")
	w.style("A1", "H1", st.sectionTitle)
	w.height(1, defaults.SectionTitleRowHeight)

	for i, h := range sheetHeaders {
		w.cell(cellRef(i+1, 2), h)
	}
	w.style("A2", "H2", st.sectionHeader)
	w.height(2, defaults.SectionHeaderRowHeight)

	for i, width := range sheetWidths {
		w.width(colName(i+1), width)
	}

	for i, row := range s.Rows {
		r := 3 + i
		w.cell(cellRef(1, r), row.Num)
		w.cell(cellRef(2, r), row.Title)
		w.cell(cellRef(3, r), row.Level)
		w.cell(cellRef(4, r), row.Description)
		w.cell(cellRef(5, r), row.Audit)
		w.cell(cellRef(6, r), row.Remediation)
		w.cell(cellRef(7, r), row.DefaultValue)
		w.cell(cellRef(8, r), row.References)
		w.style(cellRef(1, r), cellRef(8, r), st.detail)

		// Level 1 wins when a profile names both levels.
		switch {
		case strings.Contains(row.Level, "Level 1"):
			w.style(cellRef(3, r), cellRef(3, r), st.levelOne)
		case strings.Contains(row.Level, "Level 2"):
			w.style(cellRef(3, r), cellRef(3, r), st.levelTwo)
		}

		w.height(r, row.Height)
	}

	if w.err != nil {
		return fmt.Errorf("sheet %q: %w", s.Name, w.err)
	}
	return nil
}

// styleSet holds the workbook's style IDs, created once per render.
type styleSet struct {
	indexTitle    int
	indexSubtitle int
	indexHeader   int
	indexData     int
	sectionTitle  int
	sectionHeader int
	detail        int
	levelOne      int
	levelTwo      int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var st styleSet
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&st.indexTitle, &excelize.Style{
			Font:      &excelize.Font{Size: 16, Bold: true, Color: "FFFFFF"},
			Fill:      solidFill(defaults.ColorIndexTitle),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&st.indexSubtitle, &excelize.Style{
			Font:      &excelize.Font{Size: 11, Italic: true},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&st.indexHeader, &excelize.Style{
			Font:      &excelize.Font{Size: 11, Bold: true, Color: "FFFFFF"},
			Fill:      solidFill(defaults.ColorHeader),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&st.indexData, &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    thinBorder(),
		}},
		{&st.sectionTitle, &excelize.Style{
			Font:      &excelize.Font{Size: 14, Bold: true, Color: "FFFFFF"},
			Fill:      solidFill(defaults.ColorSectionTitle),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&st.sectionHeader, &excelize.Style{
			Font:      &excelize.Font{Size: 10, Bold: true, Color: "FFFFFF"},
			Fill:      solidFill(defaults.ColorHeader),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorder(),
		}},
		{&st.detail, &excelize.Style{
			Font:      &excelize.Font{Size: 9},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    thinBorder(),
		}},
		{&st.levelOne, &excelize.Style{
			Font:      &excelize.Font{Size: 9, Bold: true},
			Fill:      solidFill(defaults.ColorLevel1),
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    thinBorder(),
		}},
		{&st.levelTwo, &excelize.Style{
			Font:      &excelize.Font{Size: 9, Bold: true},
			Fill:      solidFill(defaults.ColorLevel2),
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    thinBorder(),
		}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, err
		}
		*d.id = id
	}
	return st, nil
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
}

// sheetWriter batches excelize calls against one sheet and keeps the first
// error, so render code reads as layout rather than error plumbing.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) cell(ref string, v any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, ref, v)
	}
}

func (w *sheetWriter) merge(from, to string) {
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, from, to)
	}
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, id)
	}
}

func (w *sheetWriter) height(row int, h float64) {
	if w.err == nil {
		w.err = w.f.SetRowHeight(w.sheet, row, h)
	}
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

func cellRef(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
