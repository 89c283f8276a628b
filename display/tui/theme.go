package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the overlay dashboard.
const (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorTitle   = lipgloss.Color("#06B6D4") // Cyan
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorSlider  = lipgloss.Color("#99FF99")
	colorError   = lipgloss.Color("#EF4444")
)

// Styles used throughout the TUI.
var (
	styleHeader      lipgloss.Style
	styleTitle       lipgloss.Style
	styleFooter      lipgloss.Style
	styleContent     lipgloss.Style
	styleCapacity    lipgloss.Style
	styleSliderKnob  lipgloss.Style
	styleStatus      lipgloss.Style
	styleStatusError lipgloss.Style
)

func init() {
	styleHeader = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorMuted)

	styleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitle).
		Padding(0, 1)

	styleFooter = lipgloss.NewStyle().
		Foreground(colorMuted)

	styleContent = lipgloss.NewStyle().
		Padding(0, 1)

	styleCapacity = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	styleSliderKnob = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(colorSlider).
		Padding(0, 1)

	styleStatus = lipgloss.NewStyle().
		Foreground(colorMuted).
		Italic(true)

	styleStatusError = lipgloss.NewStyle().
		Foreground(colorError)
}
