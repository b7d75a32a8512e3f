// Package style provides shared styling primitives, colors and icons, for
// consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Teal   = lipgloss.Color("#2DD4BF")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Ink    = lipgloss.Color("#101828")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
