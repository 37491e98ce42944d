package extract

import (
	"regexp"

	"github.com/benchsheet/benchsheet/pkg/cis"
)

// titlePattern matches the benchmark name line, case-insensitively, so
// "CIS Ubuntu Linux 22.04 LTS Benchmark" and cover-page variants both hit.
var titlePattern = regexp.MustCompile(`(?i)CIS\s+(.+?)\s+Benchmark`)

// versionPattern matches a semantic version with its "v" prefix.
var versionPattern = regexp.MustCompile(`v(\d+\.\d+\.\d+)`)

// startPattern marks the first recommendation heading: a line beginning
// with "1.1" or "1.1.<digit>" followed by a capital letter.
var startPattern = regexp.MustCompile(`(?:^|\n)1\.1(?:\.\d+)?\s+[A-Z]`)

// detectMetadata scans the leading pages for the benchmark title and
// version. Later pages overwrite earlier detections, and the two are
// independent. Unreadable pages are skipped; both fields staying empty is
// non-fatal.
func (e *Extractor) detectMetadata(src Source, total int) cis.Metadata {
	pages := e.opts.MetadataScanPages
	if total < pages {
		pages = total
	}

	var meta cis.Metadata
	for page := 0; page < pages; page++ {
		text, err := src.PageText(page)
		if err != nil {
			e.reporter.PageSkipped(page, err)
			continue
		}
		if m := titlePattern.FindStringSubmatch(text); m != nil {
			meta.Title = "CIS " + m[1] + " Benchmark"
		}
		if m := versionPattern.FindStringSubmatch(text); m != nil {
			meta.Version = "v" + m[1]
		}
	}
	return meta
}

// findStartPage scans the leading pages for the first recommendation
// heading and returns its 0-based index. When none is found within the
// scan window the fallback index is returned with found false. The
// fallback may lie past the last page of a short document; the extraction
// loop then simply visits nothing, which is the intended degradation.
func (e *Extractor) findStartPage(src Source, total int) (page int, found bool) {
	pages := e.opts.StartScanPages
	if total < pages {
		pages = total
	}

	for page := 0; page < pages; page++ {
		text, err := src.PageText(page)
		if err != nil {
			e.reporter.PageSkipped(page, err)
			continue
		}
		if startPattern.MatchString(text) {
			return page, true
		}
	}

	return e.opts.FallbackStartPage, false
}
