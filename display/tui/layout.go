package tui

import "strings"

// LayoutSize represents a responsive breakpoint for terminal width.
type LayoutSize int

const (
	// LayoutCompact is used for terminals narrower than 60 characters.
	LayoutCompact LayoutSize = iota
	// LayoutNormal is used for terminals between 60 and 150 characters wide.
	LayoutNormal
	// LayoutWide is used for terminals wider than 150 characters.
	LayoutWide
)

// DetectLayout returns the appropriate LayoutSize for the given terminal width.
func DetectLayout(width int) LayoutSize {
	switch {
	case width < 60:
		return LayoutCompact
	case width <= 150:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

// panelChrome is the number of lines a panel adds around its graph:
// two border lines, the header, the gauge and the footer.
const panelChrome = 5

// Graph height bounds in cells.
const (
	minGraphHeight = 2
	maxGraphHeight = 14
)

// LayoutConfig holds responsive layout values that adapt to terminal size.
type LayoutConfig struct {
	// Columns is the number of panels per row.
	Columns int
	// PanelWidth is the outer width of each panel.
	PanelWidth int
	// GraphHeight is the graph height inside each panel.
	GraphHeight int
	// ShowGauges controls whether the budget gauge row is rendered.
	ShowGauges bool
}

// LayoutFor computes panel geometry for panels visible graphs in a
// content area of width x height cells.
func LayoutFor(width, height, panels int) LayoutConfig {
	if panels < 1 {
		panels = 1
	}

	cfg := LayoutConfig{Columns: 1, ShowGauges: true}
	switch DetectLayout(width) {
	case LayoutCompact:
		cfg.ShowGauges = false
	case LayoutWide:
		cfg.Columns = panels
	}

	cfg.PanelWidth = width / cfg.Columns
	rows := (panels + cfg.Columns - 1) / cfg.Columns

	chrome := panelChrome
	if !cfg.ShowGauges {
		chrome--
	}
	cfg.GraphHeight = height/rows - chrome
	if cfg.GraphHeight < minGraphHeight {
		cfg.GraphHeight = minGraphHeight
	}
	if cfg.GraphHeight > maxGraphHeight {
		cfg.GraphHeight = maxGraphHeight
	}
	return cfg
}

// horizontalRule returns a horizontal line of the given width using box-drawing
// characters.
func horizontalRule(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}
