// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the logging mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePretty forces human-readable colored log output.
	ModePretty
	// ModeJSON forces machine-readable JSON log output.
	ModeJSON
)

// DetectEnvironment returns the recommended output mode based on the
// environment: pretty on a TTY, JSON when piped or under CI.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeJSON
	}
	return ModePretty
}

// ResolveMode applies the user override flag to auto-detection.
// userFlag should be one of: "auto", "pretty", "json", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "json":
		return ModeJSON
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
