package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors used by command output
type Palette struct {
	Primary   lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	TextMuted lipgloss.Color
}

// CurrentTheme is the active palette
var CurrentTheme = Palette{
	Primary:   lipgloss.Color("#1a9fff"),
	Success:   lipgloss.Color("#59bf40"),
	Warning:   lipgloss.Color("#e6b000"),
	Error:     lipgloss.Color("#d9534f"),
	TextMuted: lipgloss.Color("#808080"),
}

// SetTheme sets the current theme
func SetTheme(p Palette) {
	CurrentTheme = p
}

// Header renders a section header
func Header(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).Render(s)
}

// Muted renders secondary text
func Muted(s string) string {
	return lipgloss.NewStyle().Foreground(CurrentTheme.TextMuted).Render(s)
}

// Failure renders an error message
func Failure(s string) string {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(s)
}

// Outcome renders a migration outcome, colored by what happened to the entry
func Outcome(outcome string) string {
	var color lipgloss.Color
	switch outcome {
	case "moved", "copied":
		color = CurrentTheme.Success
	case "skipped":
		color = CurrentTheme.Warning
	default:
		color = CurrentTheme.TextMuted
	}
	return lipgloss.NewStyle().Foreground(color).Width(8).Render(outcome)
}
