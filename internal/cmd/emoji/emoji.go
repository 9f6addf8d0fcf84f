// Package emoji provides the status markers printed by smoketest commands.
package emoji

// Status markers for console output.
const (
	// Success marks an endpoint that answered 2xx.
	Success = "✓"

	// Error marks the endpoint that stopped the run.
	Error = "✗"

	// Warning marks non-fatal problems, such as a spec that could not be classified.
	Warning = "!"

	// Separator is printed between the probe lines and the summary.
	Separator = "---"
)
