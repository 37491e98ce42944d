// Package report lays out and renders the audit checklist workbook.
//
// The package is organized by logical concern across multiple files:
//
// # Checklist Model (checklist.go)
//
// Checklist, IndexRow, Sheet, Row, Summary, SectionCount, Builder.
// The Builder turns extracted control groups into a fully laid out
// workbook model: one index row and one sheet per section, composed
// description cells, tab names, and precomputed row heights. The model is
// deterministic for a fixed generation time, so renderers stay dumb.
//
// # Excel Rendering (excel.go)
//
// RenderExcel, WriteExcel. Renders the model into an xlsx workbook with
// the house styling: navy index banner, steel blue headers, amber and
// yellow applicability highlights, wrapped top-aligned detail cells.
package report
