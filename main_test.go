package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/perf-pulse/config"
	"gitlab.com/tinyland/lab/perf-pulse/display/color"
	"gitlab.com/tinyland/lab/perf-pulse/display/tui"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

type stepDelta struct{}

func (stepDelta) UnscaledDeltaSeconds() float64 { return 0.02 }

type busyTimer struct{}

func (busyTimer) Start() error { return nil }
func (busyTimer) Stop() error { return nil }
func (busyTimer) ReadAverageMillis() (float64, bool) { return 8.3, true }

type halfMemory struct{}

func (halfMemory) CurrentHeapBytes() uint64 { return 512 << 20 }
func (halfMemory) TotalSystemMemoryMiB() float64 { return 2048 }

func newTestOverlay(t *testing.T) *overlay.Overlay {
	t.Helper()
	o, err := overlay.New(overlay.Options{
		Delta:    stepDelta{},
		CPUTimer: busyTimer{},
		Memory:   halfMemory{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = o.Dispose() })
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("fallback writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closeLog, err := setupLogger(config.LogConfig{Level: "warn"}, false, &buf)
		if err != nil {
			t.Fatal(err)
		}
		defer closeLog()

		logger.Info("hidden")
		logger.Warn("shown")
		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
			t.Errorf("unexpected log output %q", out)
		}
	})

	t.Run("verbose forces debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closeLog, err := setupLogger(config.LogConfig{Level: "error"}, true, &buf)
		if err != nil {
			t.Fatal(err)
		}
		defer closeLog()

		logger.Debug("detail")
		if !strings.Contains(buf.String(), "detail") {
			t.Errorf("verbose logger dropped debug record: %q", buf.String())
		}
	})

	t.Run("log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "perf-pulse.log")
		logger, closeLog, err := setupLogger(config.LogConfig{Level: "info", File: path}, false, nil)
		if err != nil {
			t.Fatal(err)
		}
		logger.Info("to file")
		closeLog()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("log file content = %q", data)
		}
	})
}

func TestOverlayOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Capacity = 2000
	cfg.Sampling.CPUWindow = 8
	cfg.Graphs.MemoryCeiling = 4 * datasize.GB

	opts := overlayOptions(cfg, nil)
	if opts.Capacity != 2000 || opts.MinCapacity != 1000 || opts.MaxCapacity != 10000 {
		t.Errorf("capacity options = %d [%d, %d]", opts.Capacity, opts.MinCapacity, opts.MaxCapacity)
	}
	if opts.CPUWindow != 8 {
		t.Errorf("CPUWindow = %d, want 8", opts.CPUWindow)
	}
	if opts.CPUInterval != 16*time.Millisecond {
		t.Errorf("CPUInterval = %v", opts.CPUInterval)
	}
	if opts.MemoryCeilingMiB != 4096 {
		t.Errorf("MemoryCeilingMiB = %v, want 4096", opts.MemoryCeilingMiB)
	}
}

func TestRunHeadless_JSON(t *testing.T) {
	o := newTestOverlay(t)
	var buf bytes.Buffer

	err := runHeadless(context.Background(), o, headlessOptions{
		Ticks:    5,
		Interval: time.Millisecond,
		JSON:     true,
	}, &buf, discardLogger())
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}

	var report overlay.Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("output is not a report: %v\n%s", err, buf.String())
	}
	fps, ok := report.Metric(metrics.KindFPS)
	if !ok {
		t.Fatal("report missing FPS")
	}
	if len(fps.Snapshot.History) != 5 {
		t.Errorf("FPS history len = %d, want 5", len(fps.Snapshot.History))
	}
	if fps.Label != "50.00" {
		t.Errorf("FPS label = %q, want 50.00", fps.Label)
	}
	if report.TotalMemoryMiB != 2048 {
		t.Errorf("TotalMemoryMiB = %v, want 2048", report.TotalMemoryMiB)
	}
}

func TestRunHeadless_PanelsAndExport(t *testing.T) {
	color.ForceDisable()
	o := newTestOverlay(t)
	dir := filepath.Join(t.TempDir(), "out")
	var buf bytes.Buffer

	err := runHeadless(context.Background(), o, headlessOptions{
		Ticks:     3,
		Interval:  time.Millisecond,
		ExportDir: dir,
		Width:     60,
	}, &buf, discardLogger())
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FPS", "CPU Usage", "Memory Usage", "50.00", "512.00 / 2048.00 (25.0%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("panels missing %q:\n%s", want, out)
		}
	}

	for _, name := range []string{"report.json", "fps.png", "cpu.png", "memory.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be exported: %v", name, err)
		}
	}
}

func TestRunHeadless_Cancelled(t *testing.T) {
	o := newTestOverlay(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runHeadless(ctx, o, headlessOptions{
		Ticks:    1000,
		Interval: time.Hour,
		JSON:     true,
	}, &buf, discardLogger())
	if err != nil {
		t.Fatalf("runHeadless() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"capacity": 1000`) {
		t.Errorf("cancelled run should still print the report:\n%s", buf.String())
	}
}

func TestRunKeysCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runKeysCommand(&buf, "table"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "DISPLAY:") {
			t.Errorf("table output = %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runKeysCommand(&buf, "json"); err != nil {
			t.Fatal(err)
		}
		var entries []keyJSON
		if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
			t.Fatal(err)
		}
		if len(entries) != len(tui.DefaultRegistry().Entries) {
			t.Errorf("json has %d entries", len(entries))
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := runKeysCommand(&bytes.Buffer{}, "xml"); err == nil {
			t.Error("expected an error for an unknown format")
		}
	})
}

func TestReloadMessages(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Capacity = 3000
	cfg.Graphs.CPU = false

	msgs := reloadMessages(cfg)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if c, ok := msgs[0].(tui.CapacityMsg); !ok || c.Capacity != 3000 {
		t.Errorf("msgs[0] = %#v", msgs[0])
	}
	v, ok := msgs[1].(tui.VisibilityMsg)
	if !ok {
		t.Fatalf("msgs[1] = %#v", msgs[1])
	}
	if !v.Visible[metrics.KindFPS] || v.Visible[metrics.KindCPU] || !v.Visible[metrics.KindMemory] {
		t.Errorf("visibility = %v", v.Visible)
	}
}

func TestNewExporter(t *testing.T) {
	exp, err := newExporter("", nil)
	if err != nil || exp != nil {
		t.Fatalf("empty dir: exporter = %v, err = %v", exp != nil, err)
	}

	dir := t.TempDir()
	exp, err = newExporter(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	path, err := exp(newTestOverlay(t).Report())
	if err != nil {
		t.Fatal(err)
	}
	if path != dir {
		t.Errorf("exporter path = %q, want %q", path, dir)
	}
}

func TestRunHeadless_Plain(t *testing.T) {
	color.ForceTrueColor()
	defer color.ForceDisable()

	tests := []struct {
		name     string
		plain    bool
		wantANSI bool
	}{
		{name: "colored", plain: false, wantANSI: true},
		{name: "plain", plain: true, wantANSI: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runHeadless(context.Background(), newTestOverlay(t), headlessOptions{
				Ticks:    2,
				Interval: time.Millisecond,
				Width:    60,
				Plain:    tt.plain,
			}, &buf, discardLogger())
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(buf.String(), "\x1b["); got != tt.wantANSI {
				t.Errorf("output has escape sequences = %v, want %v", got, tt.wantANSI)
			}
			if !strings.Contains(buf.String(), "Memory Usage") {
				t.Errorf("output missing panel title:\n%s", buf.String())
			}
		})
	}
}

func TestRunHeadless_CleanExport(t *testing.T) {
	tests := []struct {
		name      string
		clean     bool
		wantStale bool
	}{
		{name: "keep", clean: false, wantStale: true},
		{name: "clean", clean: true, wantStale: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			stale := filepath.Join(dir, "old.png")
			if err := os.WriteFile(stale, []byte("x"), 0600); err != nil {
				t.Fatal(err)
			}

			err := runHeadless(context.Background(), newTestOverlay(t), headlessOptions{
				Ticks:       1,
				Interval:    time.Millisecond,
				JSON:        true,
				ExportDir:   dir,
				CleanExport: tt.clean,
			}, &bytes.Buffer{}, discardLogger())
			if err != nil {
				t.Fatal(err)
			}

			_, statErr := os.Stat(stale)
			if got := statErr == nil; got != tt.wantStale {
				t.Errorf("stale file present = %v, want %v", got, tt.wantStale)
			}
			if _, err := os.Stat(filepath.Join(dir, "report.json")); err != nil {
				t.Errorf("report.json missing: %v", err)
			}
		})
	}
}

func TestRunLastCommand(t *testing.T) {
	dir := t.TempDir()
	err := runHeadless(context.Background(), newTestOverlay(t), headlessOptions{
		Ticks:     3,
		Interval:  time.Millisecond,
		JSON:      true,
		ExportDir: dir,
	}, &bytes.Buffer{}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runLastCommand(&buf, dir, false); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"capacity 1000", "FPS", "50.00", "512.00 / 2048.00 (25.0%)", "report.json", "memory.png"} {
			if !strings.Contains(out, want) {
				t.Errorf("summary missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runLastCommand(&buf, dir, true); err != nil {
			t.Fatal(err)
		}
		var report overlay.Report
		if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
			t.Fatalf("output is not a report: %v", err)
		}
		if len(report.Metrics) != len(metrics.Kinds()) {
			t.Errorf("report has %d metrics", len(report.Metrics))
		}
	})

	t.Run("empty dir", func(t *testing.T) {
		err := runLastCommand(&bytes.Buffer{}, t.TempDir(), false)
		if !errors.Is(err, errNoReport) {
			t.Errorf("error = %v, want errNoReport", err)
		}
	})
}

func TestRunWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf-pulse", "config.toml")
	cfg := config.DefaultConfig()
	cfg.History.Capacity = 2500

	if err := runWriteConfig(cfg, path); err != nil {
		t.Fatalf("runWriteConfig() error = %v", err)
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.History.Capacity != 2500 {
		t.Errorf("Capacity = %d, want 2500", loaded.History.Capacity)
	}

	if err := runWriteConfig(cfg, path); !errors.Is(err, errConfigExists) {
		t.Errorf("second write error = %v, want errConfigExists", err)
	}
}

func TestFinish(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "cancelled", err: context.Canceled, want: 0},
		{name: "wrapped cancel", err: fmt.Errorf("tui: %w", context.Canceled), want: 0},
		{name: "failure", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := finish(newTestOverlay(t), tt.err); got != tt.want {
				t.Errorf("finish(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
