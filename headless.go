package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/perf-pulse/display/color"
	"gitlab.com/tinyland/lab/perf-pulse/display/tui"
	"gitlab.com/tinyland/lab/perf-pulse/display/widgets"
	"gitlab.com/tinyland/lab/perf-pulse/export"
	"gitlab.com/tinyland/lab/perf-pulse/internal/format"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

// headlessGraphHeight is the graph height of each printed panel.
const headlessGraphHeight = 8

// headlessOptions configures a headless run.
type headlessOptions struct {
	Ticks     int
	Interval  time.Duration
	JSON      bool
	ExportDir string
	Width     int

	// Plain strips escape sequences from the printed panels.
	Plain bool
	// CleanExport removes earlier export files before writing.
	CleanExport bool

	// Clock drives the tick loop. Nil uses wall time.
	Clock clock.Clock
}

// runHeadless ticks o opts.Ticks times, then prints the panels or the JSON
// report to w and optionally exports it. Cancelling ctx stops sampling
// early; what was collected so far is still printed.
func runHeadless(ctx context.Context, o *overlay.Overlay, opts headlessOptions, w io.Writer, logger *slog.Logger) error {
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = tui.DefaultInterval
	}

	ticker := c.Ticker(interval)
	defer ticker.Stop()

	start := c.Now()
	sampled := 0
loop:
	for sampled < opts.Ticks {
		select {
		case <-ctx.Done():
			logger.Info("sampling interrupted", "ticks", sampled)
			break loop
		case <-ticker.C:
			o.Tick()
			sampled++
		}
	}
	logger.Debug("sampling finished",
		"ticks", sampled,
		"interval", interval,
		"elapsed", format.FormatDuration(c.Since(start)),
	)

	report := o.Report()

	if opts.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	} else {
		out := renderPanels(o, opts.Width)
		if opts.Plain {
			out = color.StripANSI(out)
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}

	if opts.ExportDir == "" {
		return nil
	}
	store, err := export.NewStore(opts.ExportDir, logger)
	if err != nil {
		return err
	}
	if opts.CleanExport {
		if err := store.Clear(); err != nil {
			return err
		}
	}
	if err := store.WriteAll(report, export.DefaultImageWidth, export.DefaultImageHeight); err != nil {
		return err
	}
	logger.Info("report exported", "dir", store.Dir())
	return nil
}

// renderPanels stacks one panel per metric at the given width.
func renderPanels(o *overlay.Overlay, width int) string {
	if width < widgets.MinPanelWidth {
		width = widgets.MinPanelWidth
	}
	layout := tui.LayoutConfig{
		Columns:     1,
		PanelWidth:  width,
		GraphHeight: headlessGraphHeight,
		ShowGauges:  true,
	}

	panels := make([]string, 0, len(metrics.Kinds()))
	for _, kind := range metrics.Kinds() {
		panels = append(panels, widgets.RenderPanel(tui.PanelFor(o, kind, layout)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}
