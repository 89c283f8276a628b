package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/perf-pulse/graph"
)

// sparkBlocks contains 8 unicode block characters for sparkline rendering,
// ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineConfig controls the appearance and behavior of a sparkline chart.
type SparklineConfig struct {
	// Data points to render (most recent last).
	Data []float64
	// Width is the number of characters to render. If 0, uses len(Data).
	// Longer histories are averaged into Width buckets.
	Width int
	// Floor is the minimum scale ceiling, as for the line graphs. Values
	// are scaled against graph.Ceiling(Data, Floor) from zero.
	Floor float64
	// Label is optional text shown before the sparkline.
	Label string
	// Color is the lipgloss color for the sparkline characters.
	Color lipgloss.Color
}

// RenderSparkline renders a unicode sparkline chart from the given configuration.
func RenderSparkline(cfg SparklineConfig) string {
	if len(cfg.Data) == 0 {
		return ""
	}

	width := cfg.Width
	if width <= 0 {
		width = len(cfg.Data)
	}
	data := Downsample(cfg.Data, width)

	ceiling := graph.Ceiling(cfg.Data, cfg.Floor)

	runes := make([]rune, 0, width)
	for _, v := range data {
		if ceiling <= 0 || math.IsInf(ceiling, 0) {
			runes = append(runes, sparkBlocks[0])
			continue
		}
		// Normalize to 0-1 range, clamped.
		normalized := math.Max(0, math.Min(1, v/ceiling))
		idx := int(math.Round(normalized * float64(len(sparkBlocks)-1)))
		runes = append(runes, sparkBlocks[idx])
	}

	// Left-pad with spaces if Width > len(data).
	sparkStr := string(runes)
	if width > len(data) {
		sparkStr = strings.Repeat(" ", width-len(data)) + sparkStr
	}

	if cfg.Color != "" {
		sparkStr = lipgloss.NewStyle().Foreground(cfg.Color).Render(sparkStr)
	}

	if cfg.Label != "" {
		sparkStr = cfg.Label + " " + sparkStr
	}

	return sparkStr
}

// Downsample reduces data to at most n points by averaging consecutive
// buckets. Shorter inputs are returned unchanged.
func Downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(data) / n
		end := (i + 1) * len(data) / n
		var sum float64
		for _, v := range data[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
