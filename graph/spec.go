package graph

import "github.com/charmbracelet/lipgloss"

// DefaultBackground is the graph fill used when a Spec leaves it empty.
const DefaultBackground = lipgloss.Color("#1F1F1F")

// Spec describes how one metric's graph is scaled and colored.
type Spec struct {
	// Floor is the minimum scale ceiling.
	Floor float64

	// LineColor is the polyline color.
	LineColor lipgloss.Color

	// BackgroundColor fills the graph rectangle.
	BackgroundColor lipgloss.Color
}

// Background returns the configured background or DefaultBackground.
func (s Spec) Background() lipgloss.Color {
	if s.BackgroundColor == "" {
		return DefaultBackground
	}
	return s.BackgroundColor
}
