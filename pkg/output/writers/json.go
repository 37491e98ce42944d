package writers

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/jsonutil"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*JSONWriter)(nil)

// JSONWriter writes the export as a single JSON document.
// Unlike JSONLWriter which streams records one per line, this writer
// buffers all records in memory and writes a {summary, records} document
// when Close is called. This is suitable for batch/file output.
type JSONWriter struct {
	w       io.Writer
	mu      sync.Mutex
	opts    JSONOptions
	buffer  []*cis.Recommendation
	summary *report.Summary
}

// JSONOptions configures the JSON writer behavior.
type JSONOptions struct {
	// Pretty enables indented JSON output.
	Pretty bool

	// IndentSize sets the number of spaces for indentation
	// (default defaults.ExportIndent).
	IndentSize int
}

// jsonDocument is the envelope emitted on Close.
type jsonDocument struct {
	Summary *report.Summary       `json:"summary,omitempty"`
	Records []*cis.Recommendation `json:"records"`
}

// NewJSONWriter creates a new JSON document writer that writes to w.
// The writer buffers all records and writes the document on Close.
// The writer is safe for concurrent use.
func NewJSONWriter(w io.Writer, opts JSONOptions) *JSONWriter {
	if opts.IndentSize == 0 {
		opts.IndentSize = defaults.ExportIndent
	}
	return &JSONWriter{
		w:      w,
		opts:   opts,
		buffer: make([]*cis.Recommendation, 0),
	}
}

// WriteRecord buffers a recommendation for later document output.
// The record is stored in memory until Close is called.
func (jw *JSONWriter) WriteRecord(rec *cis.Recommendation) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.buffer = append(jw.buffer, rec)
	return nil
}

// WriteSummary stores the run summary for the document header.
func (jw *JSONWriter) WriteSummary(s *report.Summary) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.summary = s
	return nil
}

// Flush is a no-op for the JSON writer.
// The document is written as a whole on Close.
func (jw *JSONWriter) Flush() error {
	return nil
}

// Close writes the buffered document and closes the writer.
// If the underlying writer implements io.Closer, it will be closed.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	encoder := jsonutil.NewStreamEncoder(jw.w)
	if jw.opts.Pretty {
		indent := strings.Repeat(" ", jw.opts.IndentSize)
		encoder.SetIndent("", indent)
	}

	doc := jsonDocument{Summary: jw.summary, Records: jw.buffer}
	if doc.Records == nil {
		// An empty export still carries a records array, not null.
		doc.Records = []*cis.Recommendation{}
	}

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}

	if closer, ok := jw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
