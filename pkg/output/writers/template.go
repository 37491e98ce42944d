package writers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/jsonutil"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*TemplateWriter)(nil)

// TemplateConfig configures the template writer.
type TemplateConfig struct {
	// TemplatePath is the path to a custom template file.
	TemplatePath string

	// TemplateString is an inline template string (alternative to TemplatePath).
	TemplateString string

	// BuiltIn is the name of a built-in template: "csv" or "summary".
	BuiltIn string
}

// builtInTemplates contains pre-defined templates for common output formats.
var builtInTemplates = map[string]string{
	"csv": `num,title,profile,status,section,audit
{{- range .Records }}
{{ .Num }},{{ escapeCSV .Title }},{{ escapeCSV .Profile }},{{ .Status }},{{ .Section }},{{ escapeCSV .Audit }}
{{- end }}`,

	"summary": `{{ .Heading }} Audit Checklist
{{ repeat (len .Heading | add 16 | int) "=" }}
Generated: {{ .Timestamp }}

Controls:
  Total: {{ .TotalControls }}
  Automated: {{ .AutomatedCount }}
  Manual: {{ .ManualCount }}
{{ if .Sections }}
Sections:
{{- range .Sections }}
  {{ .Section }}. {{ .Name }}: {{ .Count }}
{{- end }}
{{ end }}`,
}

// TemplateWriter renders records through a Go template.
// It buffers all records in memory and renders the template on Close.
// The writer supports custom template files, inline templates, and built-in
// templates. Sprig functions and checklist-specific functions are available.
type TemplateWriter struct {
	w       io.Writer
	mu      sync.Mutex
	config  TemplateConfig
	tmpl    *template.Template
	records []*cis.Recommendation
	summary *report.Summary
}

// NewTemplateWriter creates a new template writer.
// It parses the template immediately and returns an error if the template
// is invalid. The writer buffers all records and writes the rendered
// template on Close.
func NewTemplateWriter(w io.Writer, config TemplateConfig) (*TemplateWriter, error) {
	tw := &TemplateWriter{
		w:       w,
		config:  config,
		records: make([]*cis.Recommendation, 0),
	}

	if err := tw.parseTemplate(); err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}

	return tw, nil
}

// parseTemplate parses the template from config (path, string, or built-in).
func (tw *TemplateWriter) parseTemplate() error {
	var templateContent string

	switch {
	case tw.config.TemplatePath != "":
		content, err := os.ReadFile(tw.config.TemplatePath)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		templateContent = string(content)

	case tw.config.TemplateString != "":
		templateContent = tw.config.TemplateString

	case tw.config.BuiltIn != "":
		content, ok := builtInTemplates[tw.config.BuiltIn]
		if !ok {
			return fmt.Errorf("unknown built-in template: %s (available: csv, summary)", tw.config.BuiltIn)
		}
		templateContent = content

	default:
		return fmt.Errorf("no template specified: set TemplatePath, TemplateString, or BuiltIn")
	}

	// Sprig functions plus checklist-specific helpers
	funcMap := sprig.TxtFuncMap()
	funcMap["escapeCSV"] = tmplEscapeCSV
	funcMap["escapeXML"] = tmplEscapeXML
	funcMap["mdCell"] = escapeCell
	funcMap["statusIcon"] = tmplStatusIcon
	funcMap["json"] = tmplToJSON
	funcMap["prettyJSON"] = tmplPrettyJSON

	tmpl, err := template.New("benchsheet").Funcs(funcMap).Parse(templateContent)
	if err != nil {
		return fmt.Errorf("parse output template: %w", err)
	}

	tw.tmpl = tmpl
	return nil
}

// WriteRecord buffers a recommendation for later template rendering.
func (tw *TemplateWriter) WriteRecord(rec *cis.Recommendation) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.records = append(tw.records, rec)
	return nil
}

// WriteSummary stores the run summary for template data.
func (tw *TemplateWriter) WriteSummary(s *report.Summary) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.summary = s
	return nil
}

// Flush is a no-op for the template writer.
// The template is rendered as a single document on Close.
func (tw *TemplateWriter) Flush() error {
	return nil
}

// Close renders the template with all buffered records and writes the
// output. If the underlying writer implements io.Closer, it will be closed.
func (tw *TemplateWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	data := tw.buildTemplateData()

	var buf bytes.Buffer
	if err := tw.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	if _, err := tw.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	if closer, ok := tw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// tmplData holds all data available to templates.
type tmplData struct {
	// Benchmark identity
	Title     string
	Version   string
	Heading   string
	Timestamp string

	// Records in benchmark order
	Records []*cis.Recommendation

	// Counts
	TotalControls  int
	AutomatedCount int
	ManualCount    int
	LevelCounts    map[string]int
	SectionCounts  map[string]int

	// Run summary (nil when none was written)
	Summary    *report.Summary
	Sections   []report.SectionCount
	OutputPath string
}

// buildTemplateData constructs the data object for template rendering.
func (tw *TemplateWriter) buildTemplateData() *tmplData {
	data := &tmplData{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Records:       tw.records,
		TotalControls: len(tw.records),
		LevelCounts:   make(map[string]int),
		SectionCounts: make(map[string]int),
	}

	for _, r := range tw.records {
		switch r.Status {
		case cis.StatusAutomated, cis.StatusScored:
			data.AutomatedCount++
		case cis.StatusManual, cis.StatusNotScored:
			data.ManualCount++
		}

		// A profile may name both levels; count each mention.
		if strings.Contains(r.Profile, "Level 1") {
			data.LevelCounts["Level 1"]++
		}
		if strings.Contains(r.Profile, "Level 2") {
			data.LevelCounts["Level 2"]++
		}

		data.SectionCounts[r.Section()]++
	}

	if tw.summary != nil {
		data.Summary = tw.summary
		data.Title = tw.summary.Title
		data.Version = tw.summary.Version
		data.Heading = tw.summary.Heading
		data.Sections = tw.summary.Sections
		data.OutputPath = tw.summary.OutputPath
		if !tw.summary.GeneratedAt.IsZero() {
			data.Timestamp = tw.summary.GeneratedAt.UTC().Format(time.RFC3339)
		}
	}

	return data
}

// Template helper functions

// tmplEscapeCSV escapes a string for CSV output.
// It wraps the value in quotes if it contains commas, quotes, or newlines.
func tmplEscapeCSV(s string) string {
	if s == "" {
		return ""
	}
	needsQuote := strings.ContainsAny(s, ",\"\n\r")
	if needsQuote {
		escaped := strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + escaped + "\""
	}
	return s
}

// tmplEscapeXML escapes a string for XML output.
func tmplEscapeXML(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// tmplStatusIcon returns a marker for an audit status.
func tmplStatusIcon(status string) string {
	switch status {
	case cis.StatusAutomated, cis.StatusScored:
		return "⚙"
	case cis.StatusManual, cis.StatusNotScored:
		return "✋"
	default:
		return "•"
	}
}

// tmplToJSON converts a value to a JSON string.
func tmplToJSON(v interface{}) string {
	b, err := jsonutil.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// tmplPrettyJSON converts a value to a formatted JSON string.
func tmplPrettyJSON(v interface{}) string {
	b, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}
