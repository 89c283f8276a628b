package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/perf-pulse/collectors"
)

// StatusLevel represents the state of one metric's sampler.
type StatusLevel int

const (
	// StatusLive indicates the sampler recorded a value recently.
	StatusLive StatusLevel = iota
	// StatusDegraded indicates the source fell back to its last known value.
	StatusDegraded
	// StatusIdle indicates nothing has been recorded yet.
	StatusIdle
	// StatusRejecting indicates most samples so far were rejected.
	StatusRejecting
)

// String returns the lowercase status name.
func (l StatusLevel) String() string {
	switch l {
	case StatusLive:
		return "live"
	case StatusDegraded:
		return "degraded"
	case StatusIdle:
		return "idle"
	default:
		return "rejecting"
	}
}

// statusIcons maps each status level to its display icon.
var statusIcons = map[StatusLevel]string{
	StatusLive:      "●", // ● green dot
	StatusDegraded:  "●", // ● yellow dot
	StatusIdle:      "○", // ○ gray outline
	StatusRejecting: "●", // ● red dot
}

// statusColors maps each status level to its display color.
var statusColors = map[StatusLevel]lipgloss.Color{
	StatusLive:      lipgloss.Color("#22C55E"),
	StatusDegraded:  lipgloss.Color("#EAB308"),
	StatusIdle:      lipgloss.Color("#6B7280"),
	StatusRejecting: lipgloss.Color("#EF4444"),
}

// StatusConfig holds the configuration for rendering a status indicator.
type StatusConfig struct {
	// Level determines the color and icon.
	Level StatusLevel
	// Text is the label shown next to the indicator.
	Text string
	// ShowIcon controls whether the colored dot is shown.
	ShowIcon bool
}

// RenderStatus renders a status indicator with an optional colored icon and text.
func RenderStatus(cfg StatusConfig) string {
	style := lipgloss.NewStyle().Foreground(statusColors[cfg.Level])

	if cfg.ShowIcon {
		coloredIcon := style.Render(statusIcons[cfg.Level])
		if cfg.Text == "" {
			return coloredIcon
		}
		return coloredIcon + " " + cfg.Text
	}

	return style.Render(cfg.Text)
}

// StatusFromStats derives a sampler status from its counters.
func StatusFromStats(stats collectors.SamplerStats, degraded bool) StatusLevel {
	switch {
	case stats.Recorded == 0 && stats.Rejected > 0:
		return StatusRejecting
	case stats.Rejected > stats.Recorded:
		return StatusRejecting
	case degraded:
		return StatusDegraded
	case stats.Recorded == 0:
		return StatusIdle
	default:
		return StatusLive
	}
}
