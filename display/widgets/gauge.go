package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/perf-pulse/graph"
)

// GaugeConfig controls the appearance and behavior of a horizontal bar gauge.
type GaugeConfig struct {
	// Width is the total character width of the gauge bar.
	Width int
	// Percent is the value from 0 to 100.
	Percent float64
	// Label is optional text shown to the left of the bar.
	Label string
	// ShowPercent controls whether "XX%" is shown to the right.
	ShowPercent bool
	// FilledChar is the character for filled portion (default: "█").
	FilledChar string
	// EmptyChar is the character for empty portion (default: "░").
	EmptyChar string
}

// GaugeLevel maps a percentage onto the gridline severity bands: at or
// above 100% is danger, 75% warn, 50% ok and anything lower caution.
func GaugeLevel(percent float64) graph.Level {
	switch {
	case percent >= 100:
		return graph.LevelDanger
	case percent >= 75:
		return graph.LevelWarn
	case percent >= 50:
		return graph.LevelOK
	default:
		return graph.LevelCaution
	}
}

// RenderGauge renders a horizontal bar gauge with optional label and percentage.
// Format: [Label] [████████░░░░] [XX%]
func RenderGauge(cfg GaugeConfig) string {
	percent := cfg.Percent
	if math.IsNaN(percent) {
		percent = 0
	}
	bounded := math.Max(0, math.Min(100, percent))

	filledChar := cfg.FilledChar
	if filledChar == "" {
		filledChar = "█"
	}
	emptyChar := cfg.EmptyChar
	if emptyChar == "" {
		emptyChar = "░"
	}

	width := cfg.Width
	if width <= 0 {
		width = 20
	}

	filledCount := int(math.Round(bounded / 100.0 * float64(width)))
	emptyCount := width - filledCount

	style := lipgloss.NewStyle().Foreground(GaugeLevel(percent).Color())
	bar := style.Render(strings.Repeat(filledChar, filledCount)) + strings.Repeat(emptyChar, emptyCount)

	var sb strings.Builder
	if cfg.Label != "" {
		sb.WriteString(cfg.Label)
		sb.WriteString(" ")
	}
	sb.WriteString(bar)
	if cfg.ShowPercent {
		// A frame over budget shows its real share, e.g. "140%".
		sb.WriteString(fmt.Sprintf(" %3.0f%%", math.Max(0, percent)))
	}
	return sb.String()
}

// RenderMiniGauge renders a compact gauge bar with no label or percentage text.
func RenderMiniGauge(percent float64, width int) string {
	return RenderGauge(GaugeConfig{
		Width:      width,
		Percent:    percent,
		FilledChar: "█",
		EmptyChar:  "░",
	})
}
