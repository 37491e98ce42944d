package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// makeBenchRec creates a recommendation for writer tests.
func makeBenchRec(num, title string) *cis.Recommendation {
	return &cis.Recommendation{
		Num:         num,
		Title:       title,
		Profile:     "• Level 1 - Server\n• Level 1 - Workstation",
		Status:      cis.StatusAutomated,
		Description: "Description for " + num,
		Rationale:   "Rationale for " + num,
		Audit:       "Run the audit command for " + num,
		Remediation: "Apply the remediation for " + num,
	}
}

// makeBenchSummary creates a run summary for writer tests.
func makeBenchSummary() *report.Summary {
	return &report.Summary{
		Title:         "CIS Ubuntu Linux 22.04 LTS Benchmark",
		Version:       "v2.0.0",
		Heading:       "CIS Ubuntu Linux 22.04 LTS Benchmark v2.0.0",
		TotalControls: 3,
		TotalSheets:   2,
		Sections: []report.SectionCount{
			{Section: "1", Name: "Initial Setup", Count: 2},
			{Section: "2", Name: "Services", Count: 1},
		},
		OutputPath:  "bench_Audit_Checklist.xlsx",
		GeneratedAt: time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

// TestCSVWriter tests tabular CSV output.
func TestCSVWriter(t *testing.T) {
	t.Run("writes header and rows", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: true})

		rec := makeBenchRec("1.1.1", "Ensure mounting of cramfs filesystems is disabled")
		if err := w.WriteRecord(rec); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("flush failed: %v", err)
		}

		header := strings.SplitN(buf.String(), "\n", 2)[0]
		for _, col := range []string{"num", "title", "profile", "status", "audit", "remediation"} {
			if !strings.Contains(header, col) {
				t.Errorf("header should contain %q", col)
			}
		}
	})

	t.Run("no header when IncludeHeader is false", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: false})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure something"))
		w.Flush()

		if strings.Contains(buf.String(), "num,title") {
			t.Error("output should not contain a header row")
		}
	})

	t.Run("row contains correct data", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: false})

		w.WriteRecord(makeBenchRec("2.2.1", "Ensure X is not installed"))
		w.Flush()

		row := buf.String()
		if !strings.Contains(row, "2.2.1") {
			t.Error("row should contain the control number")
		}
		if !strings.Contains(row, "Ensure X is not installed") {
			t.Error("row should contain the title")
		}
		if !strings.Contains(row, "Level 1 - Server") {
			t.Error("row should contain the profile")
		}
		if !strings.Contains(row, cis.StatusAutomated) {
			t.Error("row should contain the status")
		}
	})

	t.Run("custom delimiter", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: true, Delimiter: ';'})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure something"))
		w.Flush()

		if !strings.Contains(buf.String(), ";") {
			t.Error("output should use semicolon delimiter")
		}
	})

	t.Run("Excel compatible mode writes BOM", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: true, ExcelCompatible: true})
		w.Flush()

		if !bytes.HasPrefix(buf.Bytes(), []byte(utf8BOM)) {
			t.Error("output should start with a UTF-8 BOM")
		}
	})

	t.Run("sanitizes formula prefixes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{SanitizeFormulas: true})

		rec := makeBenchRec("9.9", "placeholder")
		rec.Title = "=cmd|' /C calc'!A0"
		w.WriteRecord(rec)
		w.Flush()

		if !strings.Contains(buf.String(), "'=cmd") {
			t.Error("formula prefix should be neutralized with a leading quote")
		}
	})

	t.Run("truncates long fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{TruncateAt: 20})

		rec := makeBenchRec("3.1", "short")
		rec.Description = strings.Repeat("a", 100)
		w.WriteRecord(rec)
		w.Flush()

		if !strings.Contains(buf.String(), strings.Repeat("a", 17)+"...") {
			t.Error("long field should be truncated with ellipsis")
		}
		if strings.Contains(buf.String(), strings.Repeat("a", 21)) {
			t.Error("field should not exceed the truncation limit")
		}
	})

	t.Run("summary block appended on Close", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: true})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure something"))
		if err := w.WriteSummary(makeBenchSummary()); err != nil {
			t.Fatalf("write summary failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "# SUMMARY") {
			t.Error("output should contain the summary marker")
		}
		if !strings.Contains(out, "CIS Ubuntu Linux 22.04 LTS Benchmark") {
			t.Error("summary should name the benchmark")
		}
		if !strings.Contains(out, "Total Controls") {
			t.Error("summary should report control totals")
		}
		if !strings.Contains(out, "2025-03-14") {
			t.Error("summary should carry the generation date")
		}
	})

	t.Run("no summary block without a summary", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: true})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure something"))
		if err := w.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		if strings.Contains(buf.String(), "# SUMMARY") {
			t.Error("output should not contain a summary block")
		}
	})
}

// TestJSONWriter tests buffered JSON document output.
func TestJSONWriter(t *testing.T) {
	t.Run("writes document on Close", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONWriter(buf, JSONOptions{})

		if err := w.WriteRecord(makeBenchRec("1.1.1", "Ensure a")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := w.WriteRecord(makeBenchRec("1.1.2", "Ensure b")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := w.WriteSummary(makeBenchSummary()); err != nil {
			t.Fatalf("write summary failed: %v", err)
		}

		// Nothing reaches the writer until Close.
		if buf.Len() > 0 {
			t.Error("expected no output before Close")
		}

		if err := w.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		var doc struct {
			Summary map[string]interface{}   `json:"summary"`
			Records []map[string]interface{} `json:"records"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if len(doc.Records) != 2 {
			t.Errorf("expected 2 records, got %d", len(doc.Records))
		}
		if doc.Summary["total_controls"] != float64(3) {
			t.Errorf("expected total_controls 3, got %v", doc.Summary["total_controls"])
		}
	})

	t.Run("empty export keeps records array", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONWriter(buf, JSONOptions{})
		if err := w.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if string(raw["records"]) != "[]" {
			t.Errorf("records should be an empty array, got %s", raw["records"])
		}
		if _, ok := raw["summary"]; ok {
			t.Error("summary should be omitted when never written")
		}
	})

	t.Run("Pretty option adds indentation", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONWriter(buf, JSONOptions{Pretty: true})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		w.Close()

		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("pretty output should contain indented lines")
		}
	})

	t.Run("records preserve benchmark order", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONWriter(buf, JSONOptions{})

		nums := []string{"1.1.1", "1.1.2", "2.3", "5.1.1.1"}
		for _, num := range nums {
			w.WriteRecord(makeBenchRec(num, "Ensure "+num))
		}
		w.Close()

		var doc struct {
			Records []struct {
				Num string `json:"num"`
			} `json:"records"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		for i, num := range nums {
			if doc.Records[i].Num != num {
				t.Errorf("record %d: expected %s, got %s", i, num, doc.Records[i].Num)
			}
		}
	})
}

// TestJSONLWriter tests JSONL streaming output.
func TestJSONLWriter(t *testing.T) {
	t.Run("writes one JSON object per line", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONLWriter(buf, JSONLOptions{})

		for _, num := range []string{"1.1.1", "1.1.2"} {
			if err := w.WriteRecord(makeBenchRec(num, "Ensure "+num)); err != nil {
				t.Fatalf("write failed: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines, got %d", len(lines))
		}
		for i, line := range lines {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				t.Errorf("line %d is not valid JSON: %v", i+1, err)
			}
		}
	})

	t.Run("records stream before Close", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONLWriter(buf, JSONLOptions{})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		if buf.Len() == 0 {
			t.Error("records should reach the writer without waiting for Close")
		}
		w.Close()
	})

	t.Run("summary envelope is the final line", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONLWriter(buf, JSONLOptions{})

		w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		if err := w.WriteSummary(makeBenchSummary()); err != nil {
			t.Fatalf("write summary failed: %v", err)
		}
		w.Close()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}

		var envelope struct {
			Summary *report.Summary `json:"summary"`
		}
		if err := json.Unmarshal([]byte(lines[len(lines)-1]), &envelope); err != nil {
			t.Fatalf("summary line is not valid JSON: %v", err)
		}
		if envelope.Summary == nil {
			t.Fatal("final line should carry the summary envelope")
		}
		if envelope.Summary.TotalControls != 3 {
			t.Errorf("expected total controls 3, got %d", envelope.Summary.TotalControls)
		}
	})

	t.Run("OnlyAutomated filters manual records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONLWriter(buf, JSONLOptions{OnlyAutomated: true})

		automated := makeBenchRec("1.1.1", "Ensure a")
		manual := makeBenchRec("1.1.2", "Ensure b")
		manual.Status = cis.StatusManual
		scored := makeBenchRec("1.1.3", "Ensure c")
		scored.Status = cis.StatusScored

		for _, rec := range []*cis.Recommendation{automated, manual, scored} {
			if err := w.WriteRecord(rec); err != nil {
				t.Fatalf("write failed: %v", err)
			}
		}
		w.Close()

		out := buf.String()
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines (automated and scored), got %d", len(lines))
		}
		if strings.Contains(out, "1.1.2") {
			t.Error("manual record should have been filtered")
		}
		if !strings.Contains(out, "1.1.3") {
			t.Error("scored record should pass the automated filter")
		}
	})
}

// TestWritersImplementInterface runs every writer through the full method
// set. The compile-time checks live in each writer file; this catches
// panics on the zero-value option paths.
func TestWritersImplementInterface(t *testing.T) {
	t.Run("CSVWriter", func(t *testing.T) {
		w := NewCSVWriter(&bytes.Buffer{}, CSVOptions{})
		_ = w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		_ = w.WriteSummary(makeBenchSummary())
		_ = w.Flush()
		_ = w.Close()
	})

	t.Run("JSONWriter", func(t *testing.T) {
		w := NewJSONWriter(&bytes.Buffer{}, JSONOptions{})
		_ = w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		_ = w.WriteSummary(makeBenchSummary())
		_ = w.Flush()
		_ = w.Close()
	})

	t.Run("JSONLWriter", func(t *testing.T) {
		w := NewJSONLWriter(&bytes.Buffer{}, JSONLOptions{})
		_ = w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		_ = w.WriteSummary(makeBenchSummary())
		_ = w.Flush()
		_ = w.Close()
	})

	t.Run("MarkdownWriter", func(t *testing.T) {
		w := NewMarkdownWriter(&bytes.Buffer{}, MarkdownConfig{})
		_ = w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		_ = w.WriteSummary(makeBenchSummary())
		_ = w.Flush()
		_ = w.Close()
	})

	t.Run("TemplateWriter", func(t *testing.T) {
		w, err := NewTemplateWriter(&bytes.Buffer{}, TemplateConfig{BuiltIn: "csv"})
		if err != nil {
			t.Fatalf("new template writer failed: %v", err)
		}
		_ = w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		_ = w.WriteSummary(makeBenchSummary())
		_ = w.Flush()
		_ = w.Close()
	})

	t.Run("PDFWriter", func(t *testing.T) {
		w := NewPDFWriter(&bytes.Buffer{}, PDFConfig{})
		_ = w.WriteRecord(makeBenchRec("1.1.1", "Ensure a"))
		_ = w.WriteSummary(makeBenchSummary())
		_ = w.Flush()
		_ = w.Close()
	})
}

// TestMultipleWrites verifies writers handle large batches correctly.
func TestMultipleWrites(t *testing.T) {
	t.Run("JSONL handles many records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONLWriter(buf, JSONLOptions{})

		for i := 0; i < 100; i++ {
			if err := w.WriteRecord(makeBenchRec("1.1.1", "Ensure a")); err != nil {
				t.Fatalf("write %d failed: %v", i, err)
			}
		}
		w.Close()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 100 {
			t.Errorf("expected 100 lines, got %d", len(lines))
		}
	})

	t.Run("JSON handles many records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewJSONWriter(buf, JSONOptions{})

		for i := 0; i < 100; i++ {
			if err := w.WriteRecord(makeBenchRec("1.1.1", "Ensure a")); err != nil {
				t.Fatalf("write %d failed: %v", i, err)
			}
		}
		w.Close()

		var doc struct {
			Records []interface{} `json:"records"`
		}
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(doc.Records) != 100 {
			t.Errorf("expected 100 records, got %d", len(doc.Records))
		}
	})

	t.Run("CSV handles many records", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewCSVWriter(buf, CSVOptions{IncludeHeader: true})

		// Single-line profile keeps each row on one physical line.
		for i := 0; i < 100; i++ {
			rec := makeBenchRec("1.1.1", "Ensure a")
			rec.Profile = "Level 1 - Server"
			if err := w.WriteRecord(rec); err != nil {
				t.Fatalf("write %d failed: %v", i, err)
			}
		}
		w.Flush()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 101 {
			t.Errorf("expected 101 lines (header + 100 rows), got %d", len(lines))
		}
	})
}
