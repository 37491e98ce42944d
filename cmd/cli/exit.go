package main

import (
	"os"

	"github.com/benchsheet/benchsheet/pkg/defaults"
	"github.com/benchsheet/benchsheet/pkg/ui"
)

// exitWithError prints an error message and exits with the failure code.
func exitWithError(message string) {
	ui.PrintError(message)
	os.Exit(defaults.ExitError)
}

// exitWithUsage prints an error message plus a usage pointer and exits.
func exitWithUsage(message string) {
	ui.PrintError(message)
	ui.PrintHelp("Run 'benchsheet help' for usage")
	os.Exit(defaults.ExitError)
}
