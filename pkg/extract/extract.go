// Package extract turns raw per-page benchmark text into ordered audit
// control records.
//
// The extractor locates recommendation headers ("1.2.3 Title (Automated)")
// from the detected start page onward, segments the content window after
// each header into labeled fields, and keeps only records with a non-empty
// audit procedure. Results are deduplicated, sorted by control number, and
// grouped by top-level section.
//
// The package works against the Source interface rather than a PDF
// library, so the segmentation core is testable on plain string fixtures.
package extract

import (
	"fmt"
	"strings"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/defaults"
)

// Source supplies per-page plain text. Implementations must preserve line
// breaks reasonably well; header and label anchoring depend on them.
type Source interface {
	// NumPages returns the total page count.
	NumPages() int

	// PageText returns the extracted text of the 0-based page index.
	PageText(i int) (string, error)
}

// Reporter receives progress notifications during extraction. Implementations
// must not retain the values past the call. Use NopReporter when progress
// output is not wanted.
type Reporter interface {
	// MetadataDetected fires once after the metadata scan.
	MetadataDetected(meta cis.Metadata)

	// StartPageFound fires once with the 0-based start page. fallback is
	// true when no recommendation heading was found in the scan window.
	StartPageFound(page int, fallback bool)

	// PageScanned fires per extracted page with the number of header
	// matches accepted on it.
	PageScanned(page, accepted int)

	// PageSkipped fires when a page's text could not be extracted.
	PageSkipped(page int, err error)

	// ExtractionDone fires once with the final record count.
	ExtractionDone(total int)
}

// NopReporter discards all progress notifications.
type NopReporter struct{}

func (NopReporter) MetadataDetected(cis.Metadata) {}
func (NopReporter) StartPageFound(int, bool)      {}
func (NopReporter) PageScanned(int, int)          {}
func (NopReporter) PageSkipped(int, error)        {}
func (NopReporter) ExtractionDone(int)            {}

// FieldCaps holds the per-field byte limits. Zero values fall back to the
// canonical caps.
type FieldCaps struct {
	Description  int
	Rationale    int
	Impact       int
	Audit        int
	Remediation  int
	DefaultValue int
	References   int
}

// Options configures an Extractor. The zero value is usable; New fills in
// canonical defaults for unset fields.
type Options struct {
	// MetadataScanPages bounds the title/version scan.
	MetadataScanPages int

	// StartScanPages bounds the search for the first recommendation
	// heading.
	StartScanPages int

	// FallbackStartPage is assumed when no heading is found.
	FallbackStartPage int

	// ContentWindow caps the bytes taken after each header for field
	// segmentation. Windows never cross a page boundary.
	ContentWindow int

	// Caps are the per-field byte limits.
	Caps FieldCaps

	// DefaultProfile is assigned when no applicability level is detected.
	DefaultProfile string

	// Reporter receives progress notifications. nil means NopReporter.
	Reporter Reporter
}

// DefaultOptions returns the canonical extraction options.
func DefaultOptions() Options {
	return Options{
		MetadataScanPages: defaults.MetadataScanPages,
		StartScanPages:    defaults.StartScanPages,
		FallbackStartPage: defaults.FallbackStartPage,
		ContentWindow:     defaults.ContentWindow,
		Caps: FieldCaps{
			Description:  defaults.MaxDescriptionLen,
			Rationale:    defaults.MaxRationaleLen,
			Impact:       defaults.MaxImpactLen,
			Audit:        defaults.MaxAuditLen,
			Remediation:  defaults.MaxRemediationLen,
			DefaultValue: defaults.MaxDefaultValueLen,
			References:   defaults.MaxReferencesLen,
		},
		DefaultProfile: defaults.DefaultProfile,
	}
}

// Result is the outcome of one extraction pass.
type Result struct {
	// Meta is the detected benchmark title and version; either field may
	// be empty.
	Meta cis.Metadata

	// Records are the retained recommendations, deduplicated and sorted
	// by control number.
	Records []cis.Recommendation

	// Groups partition Records by top-level section in ascending order.
	Groups []cis.Group

	// StartPage is the 0-based page the full extraction pass began at.
	StartPage int

	// TotalPages is the source page count.
	TotalPages int
}

// Extractor runs the extraction pipeline. Safe for reuse across documents;
// it holds no per-run state.
type Extractor struct {
	opts     Options
	reporter Reporter
}

// New creates an Extractor, applying canonical defaults for unset options.
func New(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.MetadataScanPages <= 0 {
		opts.MetadataScanPages = def.MetadataScanPages
	}
	if opts.StartScanPages <= 0 {
		opts.StartScanPages = def.StartScanPages
	}
	if opts.FallbackStartPage <= 0 {
		opts.FallbackStartPage = def.FallbackStartPage
	}
	if opts.ContentWindow <= 0 {
		opts.ContentWindow = def.ContentWindow
	}
	if opts.Caps.Description <= 0 {
		opts.Caps.Description = def.Caps.Description
	}
	if opts.Caps.Rationale <= 0 {
		opts.Caps.Rationale = def.Caps.Rationale
	}
	if opts.Caps.Impact <= 0 {
		opts.Caps.Impact = def.Caps.Impact
	}
	if opts.Caps.Audit <= 0 {
		opts.Caps.Audit = def.Caps.Audit
	}
	if opts.Caps.Remediation <= 0 {
		opts.Caps.Remediation = def.Caps.Remediation
	}
	if opts.Caps.DefaultValue <= 0 {
		opts.Caps.DefaultValue = def.Caps.DefaultValue
	}
	if opts.Caps.References <= 0 {
		opts.Caps.References = def.Caps.References
	}
	if opts.DefaultProfile == "" {
		opts.DefaultProfile = def.DefaultProfile
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	return &Extractor{opts: opts, reporter: reporter}
}

// Run executes the full pipeline against src: metadata scan, start-page
// scan, per-page header extraction with field segmentation, then
// dedupe / sort / group. The only hard failure after I/O is a malformed
// control number surfacing from the sort step; everything else degrades to
// fewer records.
func (e *Extractor) Run(src Source) (*Result, error) {
	total := src.NumPages()

	meta := e.detectMetadata(src, total)
	e.reporter.MetadataDetected(meta)

	start, found := e.findStartPage(src, total)
	e.reporter.StartPageFound(start, !found)

	var records []cis.Recommendation
	for page := start; page < total; page++ {
		text, err := src.PageText(page)
		if err != nil {
			e.reporter.PageSkipped(page, err)
			continue
		}
		accepted := e.extractPage(text, &records)
		e.reporter.PageScanned(page, accepted)
	}

	records = cis.DedupeByNum(records)
	if err := cis.SortByNum(records); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	e.reporter.ExtractionDone(len(records))

	return &Result{
		Meta:       meta,
		Records:    records,
		Groups:     cis.GroupBySection(records),
		StartPage:  start,
		TotalPages: total,
	}, nil
}

// extractPage appends every accepted record found on one page's text and
// returns how many were accepted.
func (e *Extractor) extractPage(text string, records *[]cis.Recommendation) int {
	accepted := 0
	for _, m := range headerPattern.FindAllStringSubmatchIndex(text, -1) {
		num := text[m[2]:m[3]]
		title := strings.TrimSpace(text[m[4]:m[5]])
		status := text[m[6]:m[7]]

		window := truncate(text[m[1]:], e.opts.ContentWindow)

		rec := e.segment(num, title, status, window)
		if rec.Audit == "" {
			continue
		}
		*records = append(*records, rec)
		accepted++
	}
	return accepted
}
