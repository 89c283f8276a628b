package main

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/perf-pulse/config"
	"gitlab.com/tinyland/lab/perf-pulse/display/tui"
	"gitlab.com/tinyland/lab/perf-pulse/export"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

// visibleFromConfig maps the graphs section onto TUI visibility flags.
func visibleFromConfig(g config.GraphsConfig) map[metrics.Kind]bool {
	return map[metrics.Kind]bool{
		metrics.KindFPS:    g.FPS,
		metrics.KindCPU:    g.CPU,
		metrics.KindMemory: g.Memory,
	}
}

// newExporter returns a TUI exporter writing into dir, or nil when no
// export directory is configured.
func newExporter(dir string, logger *slog.Logger) (tui.Exporter, error) {
	if dir == "" {
		return nil, nil
	}
	store, err := export.NewStore(dir, logger)
	if err != nil {
		return nil, err
	}
	return func(r overlay.Report) (string, error) {
		if err := store.WriteAll(r, export.DefaultImageWidth, export.DefaultImageHeight); err != nil {
			return "", err
		}
		return store.Dir(), nil
	}, nil
}

// reloadMessages converts a reloaded config into the messages that apply
// it to a running model.
func reloadMessages(cfg *config.Config) []tea.Msg {
	return []tea.Msg{
		tui.CapacityMsg{Capacity: cfg.History.Capacity},
		tui.VisibilityMsg{Visible: visibleFromConfig(cfg.Graphs)},
	}
}

// runTUI runs the interactive dashboard until the user quits or ctx is
// cancelled. Changes to the config file at path are applied live.
func runTUI(ctx context.Context, o *overlay.Overlay, cfg *config.Config, path string, logger *slog.Logger) error {
	exporter, err := newExporter(cfg.Export.Dir, logger)
	if err != nil {
		return err
	}

	model := tui.NewModel(o, tui.Options{
		Interval: cfg.Sampling.Interval.Std(),
		Step:     cfg.History.Step,
		Visible:  visibleFromConfig(cfg.Graphs),
		Export:   exporter,
		Logger:   logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	watcher, err := config.NewWatcher(path, cfg, func(next *config.Config) {
		for _, msg := range reloadMessages(next) {
			p.Send(msg)
		}
	}, config.WatcherOptions{Logger: logger})
	if err != nil {
		logger.Warn("config watch disabled", "path", path, "error", err)
	} else {
		go func() {
			if err := watcher.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watch stopped", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
