package graph

import "github.com/charmbracelet/lipgloss"

// Level tags a reference gridline with its severity.
type Level int

const (
	// LevelDanger marks the 100% line at the top of the graph.
	LevelDanger Level = iota
	// LevelWarn marks the 75% line.
	LevelWarn
	// LevelOK marks the 50% line.
	LevelOK
	// LevelCaution marks the 25% line.
	LevelCaution
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDanger:
		return "danger"
	case LevelWarn:
		return "warn"
	case LevelOK:
		return "ok"
	case LevelCaution:
		return "caution"
	default:
		return "unknown"
	}
}

// Reference gridline colors.
const (
	ColorDanger  = lipgloss.Color("#FF0000")
	ColorWarn    = lipgloss.Color("#FF8000")
	ColorOK      = lipgloss.Color("#00FF00")
	ColorCaution = lipgloss.Color("#FFFF00")
)

// Color returns the reference color for the level.
func (l Level) Color() lipgloss.Color {
	switch l {
	case LevelDanger:
		return ColorDanger
	case LevelWarn:
		return ColorWarn
	case LevelOK:
		return ColorOK
	default:
		return ColorCaution
	}
}

// gridlineFractions are height offsets from the top of the rectangle,
// i.e. the 100%, 75%, 50% and 25% value lines.
var gridlineFractions = [...]struct {
	offset float64
	level  Level
}{
	{0, LevelDanger},
	{0.25, LevelWarn},
	{0.5, LevelOK},
	{0.75, LevelCaution},
}

// Gridline is a horizontal reference segment.
type Gridline struct {
	From, To Point
	// Value is the fraction of the scale ceiling the line represents.
	Value float64
	Level Level
}

// Gridlines returns the four reference lines for rect, top first.
func Gridlines(rect Rect) []Gridline {
	lines := make([]Gridline, 0, len(gridlineFractions))
	for _, g := range gridlineFractions {
		y := rect.Y + rect.H*g.offset
		lines = append(lines, Gridline{
			From:  Point{X: rect.X, Y: y},
			To:    Point{X: rect.X + rect.W, Y: y},
			Value: 1 - g.offset,
			Level: g.level,
		})
	}
	return lines
}
