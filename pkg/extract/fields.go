package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/benchsheet/benchsheet/pkg/cis"
)

// headerPattern marks one recommendation header: a dotted control number at
// line start, a title beginning with a capital letter, and a parenthesized
// automation status.
var headerPattern = regexp.MustCompile(
	`(?:^|\n)(\d+(?:\.\d+)+)\s+([A-Z][^\n]+?)\s*\((Automated|Manual|Scored|Not Scored)\)`)

// profilePattern finds the applicability level anywhere in a content
// window, with or without its bullet prefix.
var profilePattern = regexp.MustCompile(`•?\s*(Level \d+|Profile Applicability)`)

// Field labels are matched at their first occurrence; each capture runs
// until the earliest of the labels that can legitimately follow it in the
// CIS document convention, or the end of the window when the record is cut
// off by the page. Terminator labels only count at line start.
var (
	descriptionPattern  = fieldPattern("Description", "Rationale", "Impact", "Audit")
	rationalePattern    = fieldPattern("Rationale", "Impact", "Audit")
	impactPattern       = fieldPattern("Impact", "Audit", "Remediation")
	auditPattern        = fieldPattern("Audit", "Remediation", "Default Value")
	remediationPattern  = fieldPattern("Remediation", "Default Value", "Impact", "References")
	defaultValuePattern = fieldPattern("Default Value", "References", "CIS Controls")
	referencesPattern   = fieldPattern("References", "CIS Controls", "Additional Information")
)

// fieldPattern builds the segmentation regex for one labeled field.
//
// The leading whitespace eater and the capture are both lazy on purpose:
// a greedy prefix would swallow the newline in front of an immediately
// following label, letting the end-of-window alternative match and bleed
// the next field's text into this one. Lazy matching ends the capture at
// the earliest terminator instead, so "Audit:\nRemediation: ..." yields an
// empty audit rather than the remediation text.
func fieldPattern(label string, terminators ...string) *regexp.Regexp {
	alts := make([]string, 0, len(terminators)+1)
	for _, t := range terminators {
		alts = append(alts, `\n`+regexp.QuoteMeta(t)+`:`)
	}
	alts = append(alts, `\z`)
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(label) + `:\s*?(.*?)(?:` + strings.Join(alts, "|") + `)`)
}

// segment slices one content window into a Recommendation. Absent fields
// are empty strings; every captured value is trimmed then capped.
func (e *Extractor) segment(num, title, status, window string) cis.Recommendation {
	profile := e.opts.DefaultProfile
	if m := profilePattern.FindStringSubmatch(window); m != nil {
		profile = m[1]
	}

	return cis.Recommendation{
		Num:          num,
		Title:        title,
		Profile:      profile,
		Status:       status,
		Description:  capture(descriptionPattern, window, e.opts.Caps.Description),
		Rationale:    capture(rationalePattern, window, e.opts.Caps.Rationale),
		Impact:       capture(impactPattern, window, e.opts.Caps.Impact),
		Audit:        capture(auditPattern, window, e.opts.Caps.Audit),
		Remediation:  capture(remediationPattern, window, e.opts.Caps.Remediation),
		DefaultValue: capture(defaultValuePattern, window, e.opts.Caps.DefaultValue),
		References:   capture(referencesPattern, window, e.opts.Caps.References),
	}
}

// capture applies a field pattern and returns the trimmed, capped value.
func capture(re *regexp.Regexp, window string, limit int) string {
	m := re.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return truncate(strings.TrimSpace(m[1]), limit)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
