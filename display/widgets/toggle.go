package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// Toggle button colors.
const (
	ToggleOnColor  = lipgloss.Color("#99FF99")
	ToggleOffColor = lipgloss.Color("#FF9999")
)

// ButtonLabel returns the visibility toggle caption for kind, e.g.
// "Display FPS : ON".
func ButtonLabel(kind metrics.Kind, visible bool) string {
	state := "OFF"
	if visible {
		state = "ON"
	}
	return fmt.Sprintf("Display %s : %s", buttonName(kind), state)
}

// ButtonColor returns the toggle background for the visibility state.
func ButtonColor(visible bool) lipgloss.Color {
	if visible {
		return ToggleOnColor
	}
	return ToggleOffColor
}

// RenderButton renders a toggle button.
func RenderButton(kind metrics.Kind, visible bool) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(ButtonColor(visible)).
		Padding(0, 1).
		Render(ButtonLabel(kind, visible))
}

func buttonName(kind metrics.Kind) string {
	switch kind {
	case metrics.KindFPS:
		return "FPS"
	case metrics.KindCPU:
		return "CPU"
	default:
		return "Memory"
	}
}
