// Package cis defines the domain model for CIS benchmark audit controls
// shared by the extraction, reporting, and export packages.
//
// A Recommendation is one numbered hardening rule lifted from a benchmark
// document. Records are keyed and ordered by their dotted control number,
// compared component-wise as integers ("1.10" sorts after "1.9").
package cis

import "strings"

// Automation status tokens as they appear in benchmark headers.
const (
	StatusAutomated = "Automated"
	StatusManual    = "Manual"
	StatusScored    = "Scored"
	StatusNotScored = "Not Scored"
)

// Recommendation is one audit control extracted from a benchmark.
// Free-text fields are independently optional; an absent segment is an
// empty string, never an error.
type Recommendation struct {
	Num          string `json:"num"`
	Title        string `json:"title"`
	Profile      string `json:"profile"`
	Status       string `json:"status"`
	Description  string `json:"description"`
	Rationale    string `json:"rationale"`
	Impact       string `json:"impact"`
	Audit        string `json:"audit"`
	Remediation  string `json:"remediation"`
	DefaultValue string `json:"default_value"`
	References   string `json:"references"`
}

// Section returns the leading component of Num, the grouping key for
// workbook sheets ("1" for "1.2.3").
func (r Recommendation) Section() string {
	if i := strings.IndexByte(r.Num, '.'); i >= 0 {
		return r.Num[:i]
	}
	return r.Num
}

// ComposedDescription returns the description with labeled rationale and
// impact paragraphs appended, the single-cell form used by the checklist's
// "Description & Impact" column.
func (r Recommendation) ComposedDescription() string {
	var b strings.Builder
	b.WriteString(r.Description)
	if r.Rationale != "" {
		b.WriteString("\n\nRATIONALE:\n")
		b.WriteString(r.Rationale)
	}
	if r.Impact != "" {
		b.WriteString("\n\nIMPACT:\n")
		b.WriteString(r.Impact)
	}
	return b.String()
}

// Metadata identifies the source benchmark. Either field may be empty when
// detection fails; that is non-fatal.
type Metadata struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Heading returns the combined title line used on sheet headers.
func (m Metadata) Heading() string {
	return strings.TrimSpace(m.Title + " " + m.Version)
}
