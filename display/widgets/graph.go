package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/perf-pulse/graph"
)

// Each terminal cell holds a 2x4 braille dot matrix.
const (
	dotsPerCellX = 2
	dotsPerCellY = 4
	brailleBase  = 0x2800
	gridRune     = '─'
)

// brailleBits indexes [x][y] within a cell.
var brailleBits = [dotsPerCellX][dotsPerCellY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// GraphConfig controls a braille line graph.
type GraphConfig struct {
	// History is the series to draw, oldest first.
	History []float64
	// Spec supplies the scale floor and colors.
	Spec graph.Spec
	// Width and Height are in terminal cells.
	Width  int
	Height int
	// HideGridlines suppresses the reference lines.
	HideGridlines bool
}

// RenderGraph draws the history as a braille polyline with the fixed
// 25/50/75/100% reference lines behind it. Gridline cells are only drawn
// where no data dot falls.
func RenderGraph(cfg GraphConfig) string {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ""
	}

	dotsW, dotsH := cfg.Width*dotsPerCellX, cfg.Height*dotsPerCellY
	rect := graph.Rect{W: float64(dotsW - 1), H: float64(dotsH - 1)}

	cells := make([][]uint8, cfg.Height)
	for i := range cells {
		cells[i] = make([]uint8, cfg.Width)
	}
	set := func(x, y int) {
		if x < 0 || y < 0 || x >= dotsW || y >= dotsH {
			return
		}
		cells[y/dotsPerCellY][x/dotsPerCellX] |= brailleBits[x%dotsPerCellX][y%dotsPerCellY]
	}

	points := graph.Project(Downsample(cfg.History, dotsW), rect, cfg.Spec.Floor)
	for i := 1; i < len(points); i++ {
		plotSegment(points[i-1], points[i], set)
	}

	gridRows := make(map[int]graph.Level)
	if !cfg.HideGridlines {
		for _, g := range graph.Gridlines(rect) {
			row := int(math.Round(g.From.Y)) / dotsPerCellY
			if _, taken := gridRows[row]; !taken {
				gridRows[row] = g.Level
			}
		}
	}

	bg := cfg.Spec.Background()
	lineStyle := lipgloss.NewStyle().Foreground(cfg.Spec.LineColor).Background(bg)
	blankStyle := lipgloss.NewStyle().Background(bg)

	lines := make([]string, cfg.Height)
	for row, cellRow := range cells {
		var sb strings.Builder
		level, isGrid := gridRows[row]
		gridStyle := lipgloss.NewStyle().Foreground(level.Color()).Background(bg)

		// Consecutive cells of the same kind share one styled run.
		var run []rune
		runStyle := blankStyle
		flush := func() {
			if len(run) > 0 {
				sb.WriteString(runStyle.Render(string(run)))
				run = run[:0]
			}
		}
		for _, bits := range cellRow {
			var r rune
			var style lipgloss.Style
			switch {
			case bits != 0:
				r, style = rune(brailleBase+int(bits)), lineStyle
			case isGrid:
				r, style = gridRune, gridStyle
			default:
				r, style = ' ', blankStyle
			}
			if len(run) > 0 && !sameStyle(style, runStyle) {
				flush()
			}
			runStyle = style
			run = append(run, r)
		}
		flush()
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// plotSegment steps along a segment one dot at a time.
func plotSegment(from, to graph.Point, set func(x, y int)) {
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		set(int(math.Round(from.X)), int(math.Round(from.Y)))
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		set(int(math.Round(from.X+dx*t)), int(math.Round(from.Y+dy*t)))
	}
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBackground() == b.GetBackground()
}
