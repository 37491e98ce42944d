package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/benchsheet/benchsheet/pkg/cis"
	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/sections"
)

// Checklist is the fully laid out workbook model. Everything a renderer
// needs is precomputed here; for a fixed generation time two builds over
// the same input are identical.
type Checklist struct {
	// Meta is the detected benchmark title and version.
	Meta cis.Metadata

	// Heading is the index banner text (title and version).
	Heading string

	// Subtitle is the dated line under the index banner.
	Subtitle string

	// Index holds one overview row per section, in section order.
	Index []IndexRow

	// Sheets holds one worksheet per section, in section order.
	Sheets []Sheet

	// Generated is the time the checklist was built.
	Generated time.Time
}

// IndexRow is one line of the overview sheet.
type IndexRow struct {
	Section  string
	Name     string
	Controls int
	TabName  string
}

// Sheet is one per-section worksheet.
type Sheet struct {
	// Name is the tab name, capped at the xlsx sheet-name limit.
	Name string

	// Title is the merged banner text across the top of the sheet.
	Title string

	Section     string
	SectionName string
	Rows        []Row
}

// Row is one control line on a section sheet. Description carries the
// composed description, rationale, and impact text; Height is the
// precomputed Excel row height for the cell contents.
type Row struct {
	Num          string
	Title        string
	Level        string
	Description  string
	Audit        string
	Remediation  string
	DefaultValue string
	References   string
	Height       float64
}

// Summary condenses a built checklist for console output and flat exports.
type Summary struct {
	Title         string         `json:"title"`
	Version       string         `json:"version"`
	Heading       string         `json:"heading"`
	TotalControls int            `json:"total_controls"`
	TotalSheets   int            `json:"total_sheets"`
	Sections      []SectionCount `json:"sections"`
	OutputPath    string         `json:"output_path,omitempty"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// SectionCount is the per-section control tally.
type SectionCount struct {
	Section string `json:"section"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

// Builder assembles Checklists from extracted control groups.
type Builder struct {
	meta  cis.Metadata
	names *sections.Config
}

// NewBuilder creates a Builder. A nil names config falls back to the
// canonical section names.
func NewBuilder(meta cis.Metadata, names *sections.Config) *Builder {
	if names == nil {
		names = sections.Default()
	}
	return &Builder{meta: meta, names: names}
}

// Build lays out the workbook model for the given groups. Groups are laid
// out in the order given; callers pass them ascending by section. now
// stamps the subtitle and Generated field.
func (b *Builder) Build(groups []cis.Group, now time.Time) *Checklist {
	c := &Checklist{
		Meta:      b.meta,
		Heading:   b.meta.Heading(),
		Subtitle:  "Audit Checklist - Generated on " + now.Format("2006-01-02"),
		Generated: now,
	}

	for _, g := range groups {
		name := b.names.Name(g.Section)
		tab := tabName(g.Section, name)

		c.Index = append(c.Index, IndexRow{
			Section:  g.Section,
			Name:     name,
			Controls: len(g.Records),
			TabName:  tab,
		})

		sheet := Sheet{
			Name:        tab,
			Title:       fmt.Sprintf("%s - Section %s: %s", b.meta.Title, g.Section, name),
			Section:     g.Section,
			SectionName: name,
			Rows:        make([]Row, 0, len(g.Records)),
		}
		for _, rec := range g.Records {
			sheet.Rows = append(sheet.Rows, buildRow(rec))
		}
		c.Sheets = append(c.Sheets, sheet)
	}

	return c
}

// Summary condenses the checklist. outputPath may be empty when the
// workbook destination is not known yet.
func (c *Checklist) Summary(outputPath string) Summary {
	s := Summary{
		Title:       c.Meta.Title,
		Version:     c.Meta.Version,
		Heading:     c.Heading,
		TotalSheets: len(c.Sheets) + 1,
		OutputPath:  outputPath,
		GeneratedAt: c.Generated,
	}
	for _, sheet := range c.Sheets {
		s.TotalControls += len(sheet.Rows)
		s.Sections = append(s.Sections, SectionCount{
			Section: sheet.Section,
			Name:    sheet.SectionName,
			Count:   len(sheet.Rows),
		})
	}
	return s
}

func buildRow(rec cis.Recommendation) Row {
	desc := rec.ComposedDescription()
	return Row{
		Num:          rec.Num,
		Title:        rec.Title,
		Level:        rec.Profile,
		Description:  desc,
		Audit:        rec.Audit,
		Remediation:  rec.Remediation,
		DefaultValue: rec.DefaultValue,
		References:   rec.References,
		Height:       rowHeight(desc, rec.Audit, rec.Remediation),
	}
}

// tabName forms the worksheet tab name "<section>. <name>" capped at the
// xlsx limit. The cap counts characters, not bytes, so multibyte section
// names never split mid-rune.
func tabName(section, name string) string {
	tab := section + ". " + name
	runes := []rune(tab)
	if len(runes) > defaults.SheetNameLimit {
		tab = string(runes[:defaults.SheetNameLimit])
	}
	return tab
}

// rowHeight scales the tallest field's line count into an Excel row
// height, clamped to the configured bounds.
func rowHeight(fields ...string) float64 {
	maxLines := 1
	for _, f := range fields {
		if n := strings.Count(f, "\n") + 1; n > maxLines {
			maxLines = n
		}
	}
	h := float64(maxLines * defaults.RowHeightPerLine)
	if h < defaults.MinDataRowHeight {
		h = defaults.MinDataRowHeight
	}
	if h > defaults.MaxDataRowHeight {
		h = defaults.MaxDataRowHeight
	}
	return h
}
