// Package tui is the interactive perf-pulse dashboard. The model owns the
// graph visibility flags and drives the overlay from a tick loop; all
// metric state lives in the overlay.
package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/perf-pulse/display/widgets"
	"gitlab.com/tinyland/lab/perf-pulse/internal/format"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 16 * time.Millisecond

// DefaultStep is the capacity change per key press.
const DefaultStep = 500

// Zone identifiers for clickable controls.
const (
	zoneCapacityDown = "capacity-down"
	zoneCapacityUp   = "capacity-up"
)

func toggleZone(kind metrics.Kind) string { return "toggle-" + kind.String() }

// Exporter persists a report. It is called off the update goroutine.
type Exporter func(overlay.Report) (string, error)

// Options configures a Model.
type Options struct {
	Interval time.Duration
	Step     int
	// Visible sets the initial graph visibility; nil shows all graphs.
	Visible map[metrics.Kind]bool
	Export  Exporter
	Logger  *slog.Logger
}

// tickMsg drives one sampling pass.
type tickMsg time.Time

// CapacityMsg asks the model to apply a new shared capacity, for example
// after a config reload.
type CapacityMsg struct {
	Capacity int
}

// VisibilityMsg replaces the graph visibility flags.
type VisibilityMsg struct {
	Visible map[metrics.Kind]bool
}

// exportDoneMsg reports the result of an export command.
type exportDoneMsg struct {
	path string
	err  error
}

// Model is the top-level Bubbletea model for the perf-pulse TUI.
type Model struct {
	overlay  *overlay.Overlay
	interval time.Duration
	step     int
	export   Exporter
	logger   *slog.Logger

	visible map[metrics.Kind]bool

	zones  *zone.Manager
	help   help.Model
	slider progress.Model

	width  int
	height int
	ready  bool

	ticks     uint64
	status    string
	statusErr bool
}

// NewModel returns a Model driving o. The caller owns the overlay
// lifecycle and must Initialize it before running the program.
func NewModel(o *overlay.Overlay, opts Options) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	step := opts.Step
	if step <= 0 {
		step = DefaultStep
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	visible := make(map[metrics.Kind]bool, len(metrics.Kinds()))
	for _, k := range metrics.Kinds() {
		visible[k] = opts.Visible == nil || opts.Visible[k]
	}

	return Model{
		overlay:  o,
		interval: interval,
		step:     step,
		export:   opts.Export,
		logger:   logger,
		visible:  visible,
		zones:    zone.New(),
		help:     help.New(),
		slider: progress.New(
			progress.WithWidth(30),
			progress.WithoutPercentage(),
			progress.WithSolidFill(string(colorSlider)),
		),
	}
}

// Visible reports whether the graph for kind is shown.
func (m Model) Visible(kind metrics.Kind) bool {
	return m.visible[kind]
}

// AnyVisible reports whether at least one graph is shown. The capacity
// control is only offered while this is true.
func (m Model) AnyVisible() bool {
	for _, v := range m.visible {
		if v {
			return true
		}
	}
	return false
}

// Close releases the click-zone tracker.
func (m Model) Close() {
	m.zones.Close()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model. It starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.overlay.Tick()
		m.ticks++
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.ToggleFPS):
			m = m.toggle(metrics.KindFPS)
		case key.Matches(msg, keys.ToggleCPU):
			m = m.toggle(metrics.KindCPU)
		case key.Matches(msg, keys.ToggleMemory):
			m = m.toggle(metrics.KindMemory)
		case key.Matches(msg, keys.CapacityUp):
			m = m.adjustCapacity(m.step)
		case key.Matches(msg, keys.CapacityDown):
			m = m.adjustCapacity(-m.step)
		case key.Matches(msg, keys.CapacityMin):
			min, _ := m.overlay.CapacityRange()
			m = m.setCapacity(min)
		case key.Matches(msg, keys.CapacityMax):
			_, max := m.overlay.CapacityRange()
			m = m.setCapacity(max)
		case key.Matches(msg, keys.Export):
			return m, m.exportCmd()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, kind := range metrics.Kinds() {
			if m.zones.Get(toggleZone(kind)).InBounds(msg) {
				return m.toggle(kind), nil
			}
		}
		if m.AnyVisible() {
			switch {
			case m.zones.Get(zoneCapacityDown).InBounds(msg):
				m = m.adjustCapacity(-m.step)
			case m.zones.Get(zoneCapacityUp).InBounds(msg):
				m = m.adjustCapacity(m.step)
			}
		}

	case CapacityMsg:
		m = m.setCapacity(msg.Capacity)

	case VisibilityMsg:
		visible := make(map[metrics.Kind]bool, len(metrics.Kinds()))
		for _, k := range metrics.Kinds() {
			visible[k] = msg.Visible[k]
		}
		m.visible = visible

	case exportDoneMsg:
		if msg.err != nil {
			m.status, m.statusErr = fmt.Sprintf("export failed: %v", msg.err), true
		} else {
			m.status, m.statusErr = "exported to "+msg.path, false
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
	}

	return m, nil
}

// toggle flips one graph's visibility. The map is copied so earlier
// model values keep their flags.
func (m Model) toggle(kind metrics.Kind) Model {
	visible := make(map[metrics.Kind]bool, len(m.visible))
	for k, v := range m.visible {
		visible[k] = v
	}
	visible[kind] = !visible[kind]
	m.visible = visible
	return m
}

// adjustCapacity moves the capacity by delta, clamped to the range. It is
// ignored while every graph is hidden.
func (m Model) adjustCapacity(delta int) Model {
	if !m.AnyVisible() {
		return m
	}
	min, max := m.overlay.CapacityRange()
	n := m.overlay.SharedCapacity() + delta
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return m.setCapacity(n)
}

func (m Model) setCapacity(n int) Model {
	if n == m.overlay.SharedCapacity() {
		return m
	}
	if err := m.overlay.SetSharedCapacity(n); err != nil {
		m.logger.Warn("capacity change rejected", "capacity", n, "error", err)
		m.status, m.statusErr = fmt.Sprintf("capacity %d rejected", n), true
		return m
	}
	m.status, m.statusErr = fmt.Sprintf("history capacity %d", n), false
	return m
}

func (m Model) exportCmd() tea.Cmd {
	if m.export == nil {
		return func() tea.Msg {
			return exportDoneMsg{err: errors.New("no export directory configured")}
		}
	}
	report := m.overlay.Report()
	export := m.export
	return func() tea.Msg {
		path, err := export(report)
		return exportDoneMsg{path: path, err: err}
	}
}

// View implements tea.Model. It renders the header, the visible panels,
// the capacity control and the footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	capacity := m.renderCapacity()

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(capacity)
	content := m.renderPanels(contentHeight)

	parts := []string{header, content}
	if capacity != "" {
		parts = append(parts, capacity)
	}
	parts = append(parts, footer)

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderHeader renders the title and the toggle buttons.
func (m Model) renderHeader() string {
	items := []string{styleTitle.Render("perf-pulse")}
	for _, kind := range metrics.Kinds() {
		btn := widgets.RenderButton(kind, m.visible[kind])
		items = append(items, " ", m.zones.Mark(toggleZone(kind), btn))
	}
	return styleHeader.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, items...))
}

// renderPanels lays out one panel per visible graph.
func (m Model) renderPanels(height int) string {
	var shown []metrics.Kind
	for _, kind := range metrics.Kinds() {
		if m.visible[kind] {
			shown = append(shown, kind)
		}
	}
	if len(shown) == 0 {
		return styleContent.Render(styleStatus.Render("all graphs hidden: press f, c or m"))
	}

	contentWidth := m.width - styleContent.GetHorizontalPadding()
	layout := LayoutFor(contentWidth, height, len(shown))

	panels := make([]string, 0, len(shown))
	for _, kind := range shown {
		panels = append(panels, m.renderPanel(kind, layout))
	}

	var rows []string
	for i := 0; i < len(panels); i += layout.Columns {
		end := i + layout.Columns
		if end > len(panels) {
			end = len(panels)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels[i:end]...))
	}
	return styleContent.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderPanel(kind metrics.Kind, layout LayoutConfig) string {
	return widgets.RenderPanel(PanelFor(m.overlay, kind, layout))
}

// PanelFor builds the panel configuration for kind from the overlay's
// current state.
func PanelFor(o *overlay.Overlay, kind metrics.Kind, layout LayoutConfig) widgets.PanelConfig {
	snap := o.Snapshot(kind)
	spec := o.GraphSpec(kind)
	total := o.TotalMemoryMiB()

	percent := -1.0
	switch kind {
	case metrics.KindCPU:
		percent = format.Percent(snap.Current, spec.Floor)
	case metrics.KindMemory:
		if total > 0 {
			percent = format.Percent(snap.Current, total)
		}
	}

	degraded := kind == metrics.KindCPU && o.CPUDegraded()
	return widgets.PanelConfig{
		Kind:         kind,
		Snapshot:     snap,
		Spec:         spec,
		Label:        overlay.Label(kind, snap.Current, total),
		AverageLabel: overlay.Label(kind, snap.Average, total),
		Status:       widgets.StatusFromStats(o.Stats(kind), degraded),
		Width:        layout.PanelWidth,
		GraphHeight:  layout.GraphHeight,
		Percent:      percent,
		Compact:      !layout.ShowGauges,
	}
}

// renderCapacity renders the history slider. It is empty while every
// graph is hidden.
func (m Model) renderCapacity() string {
	if !m.AnyVisible() {
		return ""
	}

	min, max := m.overlay.CapacityRange()
	capacity := m.overlay.SharedCapacity()

	fraction := 1.0
	if max > min {
		fraction = float64(capacity-min) / float64(max-min)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		styleCapacity.Render("History "),
		m.zones.Mark(zoneCapacityDown, styleSliderKnob.Render("-")),
		" ",
		m.slider.ViewAs(fraction),
		" ",
		m.zones.Mark(zoneCapacityUp, styleSliderKnob.Render("+")),
		fmt.Sprintf("  %d samples [%d, %d]", capacity, min, max),
	)
	return styleContent.Render(row)
}

// renderFooter renders the help line and the latest status message.
func (m Model) renderFooter() string {
	line := m.help.View(keys)
	if m.status != "" {
		style := styleStatus
		if m.statusErr {
			style = styleStatusError
		}
		line += "  " + style.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleFooter.Render(horizontalRule(m.width)),
		styleFooter.Width(m.width).Render(line),
	)
}
