package defaults

// Exit codes for the CLI.
const (
	ExitSuccess = 0 // Conversion completed, workbook written
	ExitError   = 1 // Missing input file or any unhandled failure
)
