// Package dispatcher provides the fan-out layer for flat exports.
// It receives extracted recommendations from the conversion pipeline and
// routes them to registered writers (CSV, JSON, JSONL, Markdown, template,
// PDF), decoupling record production from export formats.
//
// Delivery order is fixed: every record in benchmark order, then the run
// summary once, then Flush and Close.
package dispatcher

import (
	"errors"
	"sync"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/report"
)

// Writer is the interface for all export writers.
// Writers persist recommendations to a flat output format alongside the
// workbook.
type Writer interface {
	// WriteRecord writes a single recommendation to the output.
	WriteRecord(rec *cis.Recommendation) error

	// WriteSummary writes the run summary.
	// It is called at most once, after the last record.
	WriteSummary(s *report.Summary) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close finalizes the output and releases any resources.
	Close() error
}

// Dispatcher routes records and the run summary to registered writers.
// It is safe for concurrent use.
type Dispatcher struct {
	writers []Writer
	mu      sync.RWMutex
}

// New creates an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{writers: make([]Writer, 0)}
}

// Register adds a writer to the dispatcher.
func (d *Dispatcher) Register(w Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writers = append(d.writers, w)
}

// Len reports how many writers are registered.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.writers)
}

// WriteRecord sends a recommendation to every registered writer.
// A writer error does not stop delivery: the remaining writers still
// receive the record, and all failures are returned joined.
func (d *Dispatcher) WriteRecord(rec *cis.Recommendation) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var errs []error
	for _, w := range d.writers {
		if err := w.WriteRecord(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteSummary sends the run summary to every registered writer.
func (d *Dispatcher) WriteSummary(s *report.Summary) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var errs []error
	for _, w := range d.writers {
		if err := w.WriteSummary(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush flushes all registered writers.
func (d *Dispatcher) Flush() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var errs []error
	for _, w := range d.writers {
		if err := w.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes and closes all writers.
// Every writer is closed even when an earlier one fails; all failures are
// returned joined. After Close the dispatcher must not be used.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, w := range d.writers {
		if err := w.Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
