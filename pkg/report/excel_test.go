package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/defaults"
)

func renderTestWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	meta := cis.Metadata{Title: "CIS Ubuntu Linux 22.04 LTS Benchmark", Version: "v1.0.0"}
	c := NewBuilder(meta, nil).Build(makeGroups(), buildTime)

	f, err := RenderExcel(c)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	if err != nil {
		t.Fatalf("%s!%s: %v", sheet, ref, err)
	}
	return v
}

func TestRenderExcelSheetOrder(t *testing.T) {
	f := renderTestWorkbook(t)

	got := f.GetSheetList()
	want := []string{defaults.IndexSheetName, "1. Initial Setup", "9. Additional Hardening"}
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderExcelIndexSheet(t *testing.T) {
	f := renderTestWorkbook(t)
	index := defaults.IndexSheetName

	if got := cellValue(t, f, index, "A1"); got != "CIS Ubuntu Linux 22.04 LTS Benchmark v1.0.0" {
		t.Errorf("A1 = %q", got)
	}
	if got := cellValue(t, f, index, "A2"); got != "Audit Checklist - Generated on 2025-03-14" {
		t.Errorf("A2 = %q", got)
	}

	// Row 3 is a spacer; headers sit on row 4.
	if got := cellValue(t, f, index, "A3"); got != "" {
		t.Errorf("A3 = %q, want blank spacer", got)
	}
	for i, want := range indexHeaders {
		ref := cellRef(i+1, 4)
		if got := cellValue(t, f, index, ref); got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}

	wantRow := []string{"1", "Initial Setup", "2", "1. Initial Setup", ""}
	for i, want := range wantRow {
		ref := cellRef(i+1, 5)
		if got := cellValue(t, f, index, ref); got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}
	if got := cellValue(t, f, index, "A6"); got != "9" {
		t.Errorf("A6 = %q, want second section", got)
	}
}

func TestRenderExcelSectionSheet(t *testing.T) {
	f := renderTestWorkbook(t)
	sheet := "1. Initial Setup"

	if got := cellValue(t, f, sheet, "A1"); got != "CIS Ubuntu Linux 22.04 LTS Benchmark - Section 1: Initial Setup" {
		t.Errorf("A1 = %q", got)
	}
	for i, want := range sheetHeaders {
		ref := cellRef(i+1, 2)
		if got := cellValue(t, f, sheet, ref); got != want {
			t.Errorf("%s = %q, want %q", ref, got, want)
		}
	}

	if got := cellValue(t, f, sheet, "A3"); got != "1.1.1" {
		t.Errorf("A3 = %q", got)
	}
	if got := cellValue(t, f, sheet, "B3"); got != "Ensure cramfs is not available" {
		t.Errorf("B3 = %q", got)
	}
	if got := cellValue(t, f, sheet, "C3"); got != "Level 1" {
		t.Errorf("C3 = %q", got)
	}
	if got := cellValue(t, f, sheet, "D3"); !strings.Contains(got, "RATIONALE:") {
		t.Errorf("D3 = %q, want composed description", got)
	}
	if got := cellValue(t, f, sheet, "E3"); got != "Run: check 1.1.1" {
		t.Errorf("E3 = %q", got)
	}
	if got := cellValue(t, f, sheet, "H3"); got != "https://example.com/1.1.1" {
		t.Errorf("H3 = %q", got)
	}
}

func TestRenderExcelMerges(t *testing.T) {
	f := renderTestWorkbook(t)

	assertMerge := func(sheet, from, to string) {
		t.Helper()
		merges, err := f.GetMergeCells(sheet)
		if err != nil {
			t.Fatalf("merges %s: %v", sheet, err)
		}
		for _, m := range merges {
			if m.GetStartAxis() == from && m.GetEndAxis() == to {
				return
			}
		}
		t.Errorf("%s missing merge %s:%s", sheet, from, to)
	}

	assertMerge(defaults.IndexSheetName, "A1", "E1")
	assertMerge(defaults.IndexSheetName, "A2", "E2")
	assertMerge("1. Initial Setup", "A1", "H1")
}

func TestRenderExcelRowHeights(t *testing.T) {
	f := renderTestWorkbook(t)
	index := defaults.IndexSheetName

	cases := []struct {
		sheet string
		row   int
		want  float64
	}{
		{index, 1, defaults.TitleRowHeight},
		{index, 2, defaults.SubtitleRowHeight},
		{index, 5, defaults.IndexDataRowHeight},
		{"1. Initial Setup", 1, defaults.SectionTitleRowHeight},
		{"1. Initial Setup", 2, defaults.SectionHeaderRowHeight},
		{"1. Initial Setup", 3, defaults.MinDataRowHeight},
	}
	for _, tc := range cases {
		got, err := f.GetRowHeight(tc.sheet, tc.row)
		if err != nil {
			t.Fatalf("%s row %d: %v", tc.sheet, tc.row, err)
		}
		if got != tc.want {
			t.Errorf("%s row %d height = %v, want %v", tc.sheet, tc.row, got, tc.want)
		}
	}
}

func TestRenderExcelLevelHighlight(t *testing.T) {
	f := renderTestWorkbook(t)
	sheet := "1. Initial Setup"

	fillOf := func(ref string) string {
		t.Helper()
		id, err := f.GetCellStyle(sheet, ref)
		if err != nil {
			t.Fatalf("style %s: %v", ref, err)
		}
		style, err := f.GetStyle(id)
		if err != nil {
			t.Fatalf("style def %s: %v", ref, err)
		}
		if len(style.Fill.Color) == 0 {
			return ""
		}
		return strings.ToUpper(style.Fill.Color[0])
	}

	// Row 3 is Level 1, row 4 is Level 2.
	if got := fillOf("C3"); !strings.HasSuffix(got, defaults.ColorLevel1) {
		t.Errorf("C3 fill = %q, want %s highlight", got, defaults.ColorLevel1)
	}
	if got := fillOf("C4"); !strings.HasSuffix(got, defaults.ColorLevel2) {
		t.Errorf("C4 fill = %q, want %s highlight", got, defaults.ColorLevel2)
	}
	if got := fillOf("B3"); strings.HasSuffix(got, defaults.ColorLevel1) {
		t.Errorf("B3 fill = %q, highlight must stay on the level column", got)
	}
}

func TestWriteExcelRoundTrip(t *testing.T) {
	meta := cis.Metadata{Title: "CIS Test Benchmark", Version: "v1.0.0"}
	c := NewBuilder(meta, nil).Build(makeGroups(), buildTime)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	if err := WriteExcel(c, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 3 || got[0] != defaults.IndexSheetName {
		t.Fatalf("sheets = %v", got)
	}
	v, err := f.GetCellValue("9. Additional Hardening", "A3")
	if err != nil {
		t.Fatal(err)
	}
	if v != "9.1" {
		t.Errorf("A3 = %q, want 9.1", v)
	}
}
