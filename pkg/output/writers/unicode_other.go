//go:build !windows

package writers

import "io"

// unicodeSupported reports whether the destination can render the
// box-drawing characters the table frame uses. Non-Windows terminals
// handle UTF-8 natively.
func unicodeSupported(_ io.Writer) bool {
	return true
}
