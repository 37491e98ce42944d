// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all extraction and layout defaults.
//
// Usage:
//
//	opts.ContentWindow = defaults.ContentWindow
//	cap := defaults.MaxAuditLen
//
// DO NOT use hardcoded values like `window := 3500` anywhere.
// Instead, reference the appropriate constant from this package.
package defaults

// Version is the current benchsheet version
const Version = "1.2.0"

// ============================================================================
// EXTRACTION SCAN WINDOWS
// ============================================================================
//
// Page ranges scanned for document structure before the full extraction pass.
// ============================================================================

const (
	// MetadataScanPages is how many leading pages are searched for the
	// benchmark title and version (5)
	MetadataScanPages = 5

	// StartScanPages is how many leading pages are searched for the first
	// "1.1" recommendation heading (30)
	StartScanPages = 30

	// FallbackStartPage is the 0-based page index assumed to begin the
	// recommendations section when no heading is found (15)
	FallbackStartPage = 15

	// ContentWindow is the maximum number of bytes captured after a
	// recommendation header for field segmentation (3500)
	ContentWindow = 3500
)

// ============================================================================
// FIELD LENGTH CAPS
// ============================================================================
//
// Hard byte limits applied to each segmented field. Truncation is a plain
// cutoff backed off to a rune boundary, not word-aware.
// ============================================================================

const (
	// MaxDescriptionLen caps the description field (1500)
	MaxDescriptionLen = 1500

	// MaxRationaleLen caps the rationale field (1000)
	MaxRationaleLen = 1000

	// MaxImpactLen caps the impact field (1000)
	MaxImpactLen = 1000

	// MaxAuditLen caps the audit procedure field (2500)
	MaxAuditLen = 2500

	// MaxRemediationLen caps the remediation field (1500)
	MaxRemediationLen = 1500

	// MaxDefaultValueLen caps the default-value field (500)
	MaxDefaultValueLen = 500

	// MaxReferencesLen caps the references field (800)
	MaxReferencesLen = 800
)

// ============================================================================
// PROFILE / STATUS
// ============================================================================

const (
	// DefaultProfile is assumed when no applicability level is detected
	DefaultProfile = "Level 1"
)

// ============================================================================
// WORKBOOK GEOMETRY
// ============================================================================
//
// Sheet, row, and column layout for the generated checklist. Heights are
// Excel points, widths are Excel column-width units.
// ============================================================================

const (
	// SheetNameLimit is the xlsx sheet-name length limit (31)
	SheetNameLimit = 31

	// IndexSheetName is the name of the overview sheet
	IndexSheetName = "\U0001F4D1 INDEX"

	// TitleRowHeight is the index title row height (40)
	TitleRowHeight = 40

	// SubtitleRowHeight is the index subtitle row height (25)
	SubtitleRowHeight = 25

	// SectionTitleRowHeight is the per-section title row height (35)
	SectionTitleRowHeight = 35

	// SectionHeaderRowHeight is the per-section header row height (40)
	SectionHeaderRowHeight = 40

	// IndexDataRowHeight is the height of index data rows (30)
	IndexDataRowHeight = 30

	// RowHeightPerLine scales data row height by content line count (14)
	RowHeightPerLine = 14

	// MinDataRowHeight clamps computed data row heights from below (80)
	MinDataRowHeight = 80

	// MaxDataRowHeight clamps computed data row heights from above (350)
	MaxDataRowHeight = 350
)

// ============================================================================
// WORKBOOK PALETTE
// ============================================================================
//
// Fill colors as RRGGBB hex, matching the checklist house style.
// ============================================================================

const (
	// ColorIndexTitle fills the index title row (navy)
	ColorIndexTitle = "002060"

	// ColorSectionTitle fills section title rows (deep blue)
	ColorSectionTitle = "00518F"

	// ColorHeader fills header rows (steel blue)
	ColorHeader = "4472C4"

	// ColorLevel1 highlights Level 1 applicability cells (amber)
	ColorLevel1 = "FFC000"

	// ColorLevel2 highlights Level 2 applicability cells (yellow)
	ColorLevel2 = "FFFF00"
)

// ============================================================================
// OUTPUT
// ============================================================================

const (
	// OutputSuffix is appended to the input stem when no output path is
	// given
	OutputSuffix = "_Audit_Checklist.xlsx"

	// ExportIndent is the pretty-print indent width for JSON exports (2)
	ExportIndent = 2
)
