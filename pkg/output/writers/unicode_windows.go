//go:build windows

package writers

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// unicodeSupported reports whether the destination can render the
// box-drawing characters the table frame uses. On Windows this is only
// safe when writing to a real console whose output codepage is UTF-8;
// piped output goes through PowerShell's own re-encoding and the frame
// characters do not survive it.
func unicodeSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		// Programmatic writers receive raw bytes with no console
		// re-encoding in between.
		return true
	}

	if !term.IsTerminal(int(f.Fd())) {
		return false
	}

	// The CLI sets the console codepage to UTF-8 at startup, but that
	// does not stick in every terminal environment.
	const cpUTF8 = 65001
	cp, err := windows.GetConsoleOutputCP()
	return err == nil && cp == cpUTF8
}
