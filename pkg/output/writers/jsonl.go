package writers

import (
	"io"
	"sync"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/jsonutil"
	"github.com/benchsheet/benchsheet/pkg/output/dispatcher"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*JSONLWriter)(nil)

// JSONLWriter writes records as newline-delimited JSON (JSONL).
// Each recommendation is serialized as a complete JSON object on a single
// line, so each line can be parsed independently by tools like jq, grep,
// and streaming parsers.
//
// The run summary, when written, becomes a final {"summary": ...} envelope
// line that consumers can tell apart from record lines.
type JSONLWriter struct {
	w       io.Writer
	mu      sync.Mutex
	opts    JSONLOptions
	encoder *jsonutil.Encoder
}

// JSONLOptions configures the JSONL writer behavior.
type JSONLOptions struct {
	// OnlyAutomated filters output to controls whose audit can be
	// scripted. Manual and Not Scored controls are skipped.
	OnlyAutomated bool

	// Pretty enables indented JSON output.
	// Note: This is not JSONL compliant but useful for debugging.
	Pretty bool
}

// jsonlSummary wraps the summary so its line is distinguishable from
// record lines.
type jsonlSummary struct {
	Summary *report.Summary `json:"summary"`
}

// NewJSONLWriter creates a new JSONL writer that writes to w.
// The writer is safe for concurrent use.
func NewJSONLWriter(w io.Writer, opts JSONLOptions) *JSONLWriter {
	encoder := jsonutil.NewStreamEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return &JSONLWriter{
		w:       w,
		opts:    opts,
		encoder: encoder,
	}
}

// WriteRecord writes a recommendation as a single JSON line.
// Returns nil if the record was filtered out by options.
func (jw *JSONLWriter) WriteRecord(rec *cis.Recommendation) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.opts.OnlyAutomated {
		// Scored is the pre-v8 benchmark spelling of Automated.
		if rec.Status != cis.StatusAutomated && rec.Status != cis.StatusScored {
			return nil
		}
	}

	return jw.encoder.Encode(rec)
}

// WriteSummary writes the final summary envelope line.
func (jw *JSONLWriter) WriteSummary(s *report.Summary) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return jw.encoder.Encode(jsonlSummary{Summary: s})
}

// Flush flushes any buffered data.
// JSONL writes immediately, so this is a no-op.
func (jw *JSONLWriter) Flush() error {
	return nil
}

// Close closes the writer and releases any resources.
// If the underlying writer implements io.Closer, it will be closed.
func (jw *JSONLWriter) Close() error {
	if closer, ok := jw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
