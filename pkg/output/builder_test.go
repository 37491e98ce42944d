package output

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// =============================================================================
// Format registry tests
// =============================================================================

func TestKnownFormats_Sorted(t *testing.T) {
	names := KnownFormats()
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected sorted format names, got %v", names)
	}
	for _, want := range []string{"csv", "json", "jsonl", "md", "pdf", "summary", "table", "template"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q in KnownFormats, got %v", want, names)
		}
	}
}

func TestIsKnownFormat(t *testing.T) {
	cases := []struct {
		name  string
		known bool
	}{
		{"csv", true},
		{" CSV ", true},
		{"markdown", true},
		{"table", true},
		{"xlsx", false},
		{"", false},
		{"sarif", false},
	}
	for _, tc := range cases {
		if got := IsKnownFormat(tc.name); got != tc.known {
			t.Errorf("IsKnownFormat(%q) = %v, want %v", tc.name, got, tc.known)
		}
	}
}

// =============================================================================
// BuildDispatcher tests
// =============================================================================

func buildRec() *cis.Recommendation {
	return &cis.Recommendation{
		Num:     "1.1.1",
		Title:   "Ensure mounting of cramfs filesystems is disabled",
		Profile: "Level 1 - Server",
		Status:  cis.StatusAutomated,
		Audit:   "Run modprobe -n -v cramfs",
	}
}

func buildSummary() *report.Summary {
	return &report.Summary{
		Title:         "CIS Ubuntu Linux 22.04 LTS Benchmark",
		Version:       "v2.0.0",
		Heading:       "CIS Ubuntu Linux 22.04 LTS Benchmark v2.0.0",
		TotalControls: 1,
		TotalSheets:   1,
		Sections:      []report.SectionCount{{Section: "1", Name: "Initial Setup", Count: 1}},
	}
}

func TestBuildDispatcher_NoFormats(t *testing.T) {
	d, err := BuildDispatcher(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 0 {
		t.Errorf("expected empty dispatcher, got %d writers", d.Len())
	}
}

func TestBuildDispatcher_CreatesFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "bench")

	d, err := BuildDispatcher(Config{
		Formats:  []string{"csv", "json", "jsonl", "md", "pdf", "summary"},
		BasePath: base,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 6 {
		t.Fatalf("expected 6 writers, got %d", d.Len())
	}

	if err := d.WriteRecord(buildRec()); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := d.WriteSummary(buildSummary()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, ext := range []string{".csv", ".json", ".jsonl", ".md", ".pdf", ".txt"} {
		info, err := os.Stat(base + ext)
		if err != nil {
			t.Errorf("export file %s not created: %v", ext, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("export file %s is empty", ext)
		}
	}
}

func TestBuildDispatcher_AliasOpensOnce(t *testing.T) {
	dir := t.TempDir()

	d, err := BuildDispatcher(Config{
		Formats:  []string{"md", "markdown"},
		BasePath: filepath.Join(dir, "bench"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	if d.Len() != 1 {
		t.Errorf("expected aliases to fold into 1 writer, got %d", d.Len())
	}
}

func TestBuildDispatcher_DuplicateFormatOpensOnce(t *testing.T) {
	dir := t.TempDir()

	d, err := BuildDispatcher(Config{
		Formats:  []string{"csv", "csv"},
		BasePath: filepath.Join(dir, "bench"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	if d.Len() != 1 {
		t.Errorf("expected duplicate format to fold into 1 writer, got %d", d.Len())
	}
}

func TestBuildDispatcher_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "bench")

	_, err := BuildDispatcher(Config{
		Formats:  []string{"csv", "xlsx"},
		BasePath: base,
	})
	if err == nil {
		t.Fatal("expected error for unknown format, got nil")
	}
	if !strings.Contains(err.Error(), "unknown export format") {
		t.Errorf("expected unknown format error, got: %v", err)
	}

	// The CSV file opened before the failure must be cleaned up again.
	if _, err := os.Stat(base + ".csv"); !os.IsNotExist(err) {
		t.Errorf("expected %s.csv to be removed on error, stat err = %v", base, err)
	}
}

func TestBuildDispatcher_EmptyBasePath(t *testing.T) {
	_, err := BuildDispatcher(Config{Formats: []string{"csv"}})
	if err == nil {
		t.Fatal("expected error for missing export path, got nil")
	}
	if !strings.Contains(err.Error(), "export path not set") {
		t.Errorf("expected export path error, got: %v", err)
	}
}

func TestBuildDispatcher_InvalidDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nonexistent", "deep", "bench")

	_, err := BuildDispatcher(Config{
		Formats:  []string{"json"},
		BasePath: base,
	})
	if err == nil {
		t.Fatal("expected error for invalid directory, got nil")
	}
	if !strings.Contains(err.Error(), "failed to create export file") {
		t.Errorf("expected create error, got: %v", err)
	}
}

func TestBuildDispatcher_TemplateRequiresPath(t *testing.T) {
	dir := t.TempDir()

	_, err := BuildDispatcher(Config{
		Formats:  []string{"template"},
		BasePath: filepath.Join(dir, "bench"),
	})
	if err == nil {
		t.Fatal("expected error for template format without template file, got nil")
	}
	if !strings.Contains(err.Error(), "requires a template file") {
		t.Errorf("expected template file error, got: %v", err)
	}
}

func TestBuildDispatcher_TemplateFile(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "bench")

	tmplPath := filepath.Join(dir, "list.tmpl")
	tmpl := "{{ range .Records }}{{ .Num }}\n{{ end }}"
	if err := os.WriteFile(tmplPath, []byte(tmpl), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	d, err := BuildDispatcher(Config{
		Formats:      []string{"template"},
		BasePath:     base,
		TemplatePath: tmplPath,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := d.WriteRecord(buildRec()); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out, err := os.ReadFile(base + ".out")
	if err != nil {
		t.Fatalf("failed to read rendered output: %v", err)
	}
	if !strings.Contains(string(out), "1.1.1") {
		t.Errorf("expected rendered record number, got: %q", out)
	}
}

func TestBuildDispatcher_TableWritesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer

	d, err := BuildDispatcher(Config{
		Formats:  []string{"table"},
		TableOut: &buf,
		NoColor:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("expected 1 writer, got %d", d.Len())
	}

	if err := d.WriteRecord(buildRec()); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := d.WriteSummary(buildSummary()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1.1.1") {
		t.Errorf("expected table output to contain record number, got: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no ANSI codes with NoColor, got: %q", out)
	}
}

func TestBuildDispatcher_MarkdownTitlePassedThrough(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "bench")

	d, err := BuildDispatcher(Config{
		Formats:  []string{"md"},
		BasePath: base,
		Title:    "Custom Audit Title",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := d.WriteRecord(buildRec()); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out, err := os.ReadFile(base + ".md")
	if err != nil {
		t.Fatalf("failed to read markdown output: %v", err)
	}
	if !strings.Contains(string(out), "# Custom Audit Title") {
		t.Errorf("expected custom title heading, got: %q", out)
	}
}
