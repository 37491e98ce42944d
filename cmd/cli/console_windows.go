//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// init switches the Windows console to UTF-8 and enables ANSI escape
// processing so the banner and stage output render the same as on Unix.
// Failures are ignored; the ui package falls back to ASCII output when the
// console cannot keep up.
func init() {
	// CP_UTF8 = 65001 for both output and input
	windows.SetConsoleOutputCP(65001)
	windows.SetConsoleCP(65001)

	// Enable virtual terminal processing so lipgloss colors work on
	// conhost as well.
	handle := windows.Handle(os.Stderr.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err == nil {
		windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
