package output

import "github.com/charmbracelet/lipgloss"

// categoryColors colors failure categories on a terminal
var categoryColors = map[string]lipgloss.Color{
	"validation":  lipgloss.Color("#f5c800"),
	"conflict":    lipgloss.Color("#f89048"),
	"interactive": lipgloss.Color("#9f83e4"),
	"auth":        lipgloss.Color("#f46251"),
	"network":     lipgloss.Color("#4ccbf1"),
	"not_found":   lipgloss.Color("#5084f3"),
	"safety":      lipgloss.Color("#eb82bc"),
	"timeout":     lipgloss.Color("#f89048"),
	"policy":      lipgloss.Color("#6ead26"),
	"busy":        lipgloss.Color("#4dca7d"),
}

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f46251"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4dca7d"))
)

// categoryStyle returns the badge style for a failure category
func categoryStyle(category string) lipgloss.Style {
	color, ok := categoryColors[category]
	if !ok {
		color = lipgloss.Color("#888888")
	}
	return lipgloss.NewStyle().Foreground(color)
}
