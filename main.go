// perf-pulse is a terminal performance overlay.
//
// It samples frames per second, per-frame CPU time, and heap usage once per
// tick, keeps a bounded shared-capacity history of each, and draws them as
// scaled line graphs in an interactive TUI or prints them once in headless
// mode.
//
// Usage:
//
//	perf-pulse [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/perf-pulse/config.yaml)
//	-headless         Sample a fixed number of ticks and print the result
//	-ticks int        Ticks to sample in headless mode (default: 120)
//	-interval dur     Tick interval override
//	-json             Print the headless or -last report as JSON
//	-export string    Write report.json and graph PNGs to this directory
//	-clean-export     Remove earlier files from the -export directory first
//	-last             Print the last exported report
//	-color string     Color output: auto, always or never (default: auto)
//	-write-config     Write the effective configuration to the config path
//	-keys             Print keybindings
//	-format string    Keybinding output format with -keys (table|json)
//	-man              Print man page to stdout in roff format
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/perf-pulse/config"
	"gitlab.com/tinyland/lab/perf-pulse/display/color"
	"gitlab.com/tinyland/lab/perf-pulse/docs/manpage"
	"gitlab.com/tinyland/lab/perf-pulse/overlay"
)

// defaultHeadlessTicks is two seconds of samples at 60 Hz.
const defaultHeadlessTicks = 120

func main() {
	os.Exit(run())
}

// run executes perf-pulse and returns the process exit code. Deferred
// cleanup runs before main exits.
func run() (code int) {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/perf-pulse/config.yaml)")
		headless    = flag.Bool("headless", false, "Sample a fixed number of ticks and print the result")
		ticks       = flag.Int("ticks", defaultHeadlessTicks, "Ticks to sample in headless mode")
		interval    = flag.Duration("interval", 0, "Tick interval override (0 = config value)")
		asJSON      = flag.Bool("json", false, "Print the headless or -last report as JSON")
		exportDir   = flag.String("export", "", "Write report.json and graph PNGs to this directory after a headless run")
		cleanExport = flag.Bool("clean-export", false, "Remove earlier files from the -export directory first")
		showLast    = flag.Bool("last", false, "Print the last exported report and exit")
		colorMode   = flag.String("color", color.ModeAuto, "Color output (auto|always|never)")
		writeConfig = flag.Bool("write-config", false, "Write the effective configuration to the config path and exit")
		showKeys    = flag.Bool("keys", false, "Print keybindings and exit")
		keysFormat  = flag.String("format", "table", "Keybinding output format with -keys (table|json)")
		showMan     = flag.Bool("man", false, "Print man page to stdout in roff format")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	// ---------------------------------------------------------------
	// Commands that don't require config
	// ---------------------------------------------------------------

	if *showVersion {
		fmt.Printf("perf-pulse %s (%s) built %s\n", version, commit, date)
		return 0
	}

	if *showMan {
		fmt.Print(manpage.Generate(version, commit, date))
		return 0
	}

	if *showKeys {
		if err := runKeysCommand(os.Stdout, *keysFormat); err != nil {
			fmt.Fprintf(os.Stderr, "perf-pulse: %v\n", err)
			return 1
		}
		return 0
	}

	// ---------------------------------------------------------------
	// Load configuration (required for remaining modes)
	// ---------------------------------------------------------------

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *interval > 0 {
		cfg.Sampling.Interval = config.Duration(*interval)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	if *writeConfig {
		if err := runWriteConfig(cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "perf-pulse: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", path)
		return 0
	}

	if *showLast {
		dir := *exportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}
		if err := runLastCommand(os.Stdout, dir, *asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "perf-pulse: %v\n", err)
			return 1
		}
		return 0
	}

	// The TUI owns the terminal, so it only logs when a log file is set.
	var logOut io.Writer = os.Stderr
	if !*headless {
		logOut = io.Discard
	}
	logger, closeLog, err := setupLogger(cfg.Log, *verbose, logOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	colored, err := color.ApplyMode(*colorMode, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "perf-pulse: %v\n", err)
		return 1
	}

	// ---------------------------------------------------------------
	// Context with signal handling
	// ---------------------------------------------------------------

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	o, err := overlay.New(overlayOptions(cfg, logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "overlay init failed: %v\n", err)
		return 1
	}
	if err := o.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "overlay init failed: %v\n", err)
		return 1
	}

	if *headless {
		width := 80
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			width = w
		}
		runErr := runHeadless(ctx, o, headlessOptions{
			Ticks:       *ticks,
			Interval:    cfg.Sampling.Interval.Std(),
			JSON:        *asJSON,
			ExportDir:   *exportDir,
			Width:       width,
			Plain:       !colored,
			CleanExport: *cleanExport,
		}, os.Stdout, logger)
		return finish(o, runErr)
	}

	// ---------------------------------------------------------------
	// TUI mode
	// ---------------------------------------------------------------

	defer func() {
		if r := recover(); r != nil {
			// Attempt to restore terminal from alt-screen before printing error.
			fmt.Print("\x1b[?1049l\x1b[?25h")
			fmt.Fprintf(os.Stderr, "perf-pulse: TUI panic: %v\n", r)
			code = 1
		}
	}()

	return finish(o, runTUI(ctx, o, cfg, path, logger))
}

// finish disposes the overlay and returns the exit code matching err.
// Cancellation by signal exits cleanly.
func finish(o *overlay.Overlay, err error) int {
	if derr := o.Dispose(); derr != nil && err == nil {
		err = derr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "perf-pulse: %v\n", err)
		return 1
	}
	return 0
}

// overlayOptions maps the loaded configuration onto overlay options.
func overlayOptions(cfg *config.Config, logger *slog.Logger) overlay.Options {
	return overlay.Options{
		Capacity:         cfg.History.Capacity,
		MinCapacity:      cfg.History.MinCapacity,
		MaxCapacity:      cfg.History.MaxCapacity,
		CPUWindow:        cfg.Sampling.CPUWindow,
		CPUInterval:      cfg.Sampling.Interval.Std(),
		MemoryCeilingMiB: cfg.Graphs.MemoryCeiling.MBytes(),
		Logger:           logger,
	}
}
