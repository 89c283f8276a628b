package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/perf-pulse/graph"
	"gitlab.com/tinyland/lab/perf-pulse/internal/format"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// PanelConfig describes one metric panel.
type PanelConfig struct {
	Kind     metrics.Kind
	Snapshot metrics.Snapshot
	Spec     graph.Spec
	// Label is the formatted current value.
	Label string
	// AverageLabel is the formatted mean; empty falls back to %.2f.
	AverageLabel string
	Status       StatusLevel
	// Width is the outer width in cells, including the border.
	Width int
	// GraphHeight is the graph height in cells.
	GraphHeight int
	// Percent drives the budget gauge under the graph; negative hides it.
	Percent float64
	// Compact moves the gauge into the footer as a mini gauge.
	Compact bool
}

// sparklineHeight is the graph height below which a one-row sparkline
// replaces the braille graph.
const sparklineHeight = 3

// miniGaugeWidth is the width of the footer gauge in compact panels.
const miniGaugeWidth = 8

// MinPanelWidth is the narrowest panel that still fits its header.
const MinPanelWidth = 24

var panelBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#4B5563"))

// RenderPanel renders a bordered panel with a header line, the line graph,
// and a footer with the average and scale ceiling. Graphs shorter than
// sparklineHeight rows are drawn as a sparkline.
func RenderPanel(cfg PanelConfig) string {
	width := cfg.Width
	if width < MinPanelWidth {
		width = MinPanelWidth
	}
	inner := width - 2

	height := cfg.GraphHeight
	if height <= 0 {
		height = 6
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(cfg.Spec.LineColor).Render(cfg.Kind.Title())
	status := RenderStatus(StatusConfig{Level: cfg.Status, ShowIcon: true})
	value := fmt.Sprintf("%s %s", cfg.Label, cfg.Kind.Unit())
	header := joinEnds(title+" "+status, value, inner)

	var body string
	if height < sparklineHeight {
		body = RenderSparkline(SparklineConfig{
			Data:  cfg.Snapshot.History,
			Width: inner,
			Floor: cfg.Spec.Floor,
			Color: cfg.Spec.LineColor,
		})
		if body == "" {
			body = strings.Repeat(" ", inner)
		}
	} else {
		body = RenderGraph(GraphConfig{
			History: cfg.Snapshot.History,
			Spec:    cfg.Spec,
			Width:   inner,
			Height:  height,
		})
	}

	avg := cfg.AverageLabel
	if avg == "" {
		avg = fmt.Sprintf("%.2f", cfg.Snapshot.Average)
	}
	left := "avg " + avg
	if cfg.Compact && cfg.Percent >= 0 {
		left += " " + RenderMiniGauge(cfg.Percent, miniGaugeWidth)
	}

	ceiling := graph.Ceiling(cfg.Snapshot.History, cfg.Spec.Floor)
	footer := joinEnds(
		left,
		fmt.Sprintf("max %.2f  scale %.2f  n=%d", cfg.Snapshot.Max, ceiling, len(cfg.Snapshot.History)),
		inner,
	)

	parts := []string{header, body}
	if cfg.Percent >= 0 && !cfg.Compact {
		parts = append(parts, RenderGauge(GaugeConfig{Width: inner - 5, Percent: cfg.Percent, ShowPercent: true}))
	}
	parts = append(parts, footer)

	return panelBorder.Width(inner).Render(strings.Join(parts, "\n"))
}

// joinEnds places left and right at opposite ends of width cells,
// truncating right when they do not fit.
func joinEnds(left, right string, width int) string {
	lw := lipgloss.Width(left)
	room := width - lw - 1
	if room <= 0 {
		return left
	}
	if lipgloss.Width(right) > room {
		right = format.TruncateWithEllipsis(right, room)
	}
	gap := width - lw - lipgloss.Width(right)
	return left + strings.Repeat(" ", gap) + right
}
