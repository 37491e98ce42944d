package pdftext

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// typographic maps punctuation common in benchmark PDFs to the ASCII forms
// the downstream label patterns anchor on. Bullets stay as-is; profile
// detection matches on them. Zero-width characters and soft hyphens are
// dropped because they split words invisibly.
var typographic = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"–", "-", // en dash
	"—", "-", // em dash
	"‑", "-", // non-breaking hyphen
	"−", "-", // minus sign
	" ", " ", // no-break space
	"­", "", // soft hyphen
	"​", "", // zero-width space
	"\uFEFF", "", // zero-width no-break space
)

// Normalize folds compatibility forms with NFKC (ligatures such as ﬁ,
// fullwidth digits, superscripts) and then maps typographic punctuation to
// ASCII. Page text is normalized before any pattern runs against it.
func Normalize(s string) string {
	return typographic.Replace(norm.NFKC.String(s))
}
