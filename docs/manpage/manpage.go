// Package manpage generates a roff-formatted man page for perf-pulse.
//
// The keybinding section is generated at runtime from the TUI KeyRegistry,
// so the page always matches the bindings compiled into the binary.
//
// Usage:
//
//	perf-pulse -man | man -l -
//	perf-pulse -man > ~/.local/share/man/man1/perf-pulse.1
package manpage

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/perf-pulse/display/tui"
)

// Generate produces a complete roff-formatted man(1) page for perf-pulse.
// The version, commit, and date parameters come from the build-time
// linker variables.
func Generate(version, commit, date string) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeOptions(&b)
	writeKeybindings(&b)
	writeConfiguration(&b)
	writeFiles(&b)
	writeExamples(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeSeeAlso(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

// roffEscape escapes special roff characters in a string.
func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `-`, `\-`)
	s = strings.ReplaceAll(s, `.`, `\&.`)
	return s
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH PERF-PULSE 1 \"%s\" \"perf-pulse %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
perf\-pulse \- live frame rate, CPU time and memory graphs in the terminal
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B perf\-pulse
[\fIOPTIONS\fR]
`)
}

func writeDescription(b *strings.Builder) {
	b.WriteString(`.SH DESCRIPTION
.B perf\-pulse
samples three runtime metrics once per tick and keeps a bounded history of
each: frames per second, CPU time per frame in milliseconds, and heap usage
in MiB. Each metric is drawn as a line graph scaled to the larger of its
recent history and a fixed floor (60 FPS, a 16.6 ms frame budget, and total
system memory).
.PP
All three histories share one capacity, adjustable between a configured
minimum and maximum. Shrinking the capacity drops the oldest samples.
.PP
The tool runs in two modes:
.IP \(bu 2
.B TUI mode
(default): an interactive dashboard with per-graph toggle buttons and a
history capacity slider. Buttons and the slider respond to mouse clicks.
.IP \(bu 2
.B Headless mode
(\fB\-headless\fR): samples a fixed number of ticks, then prints the
panels or a JSON report and optionally exports it.
`)
}

func writeOptions(b *strings.Builder) {
	b.WriteString(`.SH OPTIONS
`)

	flags := []struct {
		flag string
		arg  string
		desc string
	}{
		{"config", "PATH", "Path to the configuration file. Files ending in .toml are read as TOML, anything else as YAML. Default: ~/.config/perf\\-pulse/config.yaml."},
		{"headless", "", "Sample without the interactive dashboard and print the result."},
		{"ticks", "N", "Number of ticks to sample in headless mode. Default: 120."},
		{"interval", "DURATION", "Tick interval override (e.g. 16ms). Default: the sampling.interval config value."},
		{"json", "", "Print the headless or \\-last report as JSON instead of rendered panels."},
		{"export", "DIR", "Write report.json and one PNG graph per metric to DIR after a headless run."},
		{"clean-export", "", "Remove earlier files from the \\-export directory before writing."},
		{"last", "", "Print the last exported report from the \\-export directory, or export.dir, and exit."},
		{"color", "MODE", "Color output: auto, always or never. Auto disables color for pipes and when NO_COLOR is set. Default: auto."},
		{"write-config", "", "Write the effective configuration to the \\-config path and exit. An existing file is never replaced."},
		{"keys", "", "Print all keybindings in a formatted table and exit."},
		{"format", "FORMAT", "Keybinding output format with \\-keys: table or json. Default: table."},
		{"man", "", "Print this man page in roff format and exit."},
		{"verbose", "", "Enable debug-level logging."},
		{"version", "", "Print the version, commit hash, and build date, then exit."},
	}

	for _, f := range flags {
		b.WriteString(".TP\n")
		if f.arg != "" {
			fmt.Fprintf(b, ".BR \\-%s \" \\fI%s\\fR\"\n", f.flag, f.arg)
		} else {
			fmt.Fprintf(b, ".B \\-%s\n", f.flag)
		}
		b.WriteString(f.desc + "\n")
	}
}

func writeKeybindings(b *strings.Builder) {
	b.WriteString(`.SH KEYBINDINGS
Bindings marked clickable can also be triggered with the mouse.
`)

	registry := tui.DefaultRegistry()

	categories := []struct {
		cat  tui.KeyCategory
		name string
	}{
		{tui.CategoryDisplay, "Display"},
		{tui.CategoryHistory, "History"},
		{tui.CategorySystem, "System"},
	}

	for _, cat := range categories {
		entries := registry.ByCategory(cat.cat)
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(b, ".SS %s\n", cat.name)
		for _, e := range entries {
			keysStr := strings.Join(e.Binding.Keys(), ", ")
			desc := e.Binding.Help().Desc
			if e.Mouse {
				desc += " (clickable)"
			}
			fmt.Fprintf(b, ".TP\n.B %s\n%s\n", roffEscape(keysStr), desc)
		}
	}
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
The configuration file is watched while the dashboard runs. Valid changes
to history capacity and graph visibility are applied without a restart.
.SS sampling
.TP
.B interval
Duration between ticks (e.g. "16ms"). Default: "16ms".
.TP
.B cpu_window
Number of CPU time samples averaged per reading. Default: 16.
.SS history
.TP
.B capacity
Initial samples kept per metric. Default: 1000.
.TP
.B min_capacity
Lowest capacity accepted. Default: 1000.
.TP
.B max_capacity
Highest capacity accepted. Default: 10000.
.TP
.B step
Capacity change per key press or click. Default: 500.
.SS graphs
.TP
.B fps, cpu, memory
Initial visibility of each graph. Default: true.
.TP
.B memory_ceiling
Fixed memory graph floor (e.g. "4GB"). Default: total system memory.
.SS log
.TP
.B level
One of debug, info, warn, error. Default: info.
.TP
.B file
Write logs to this file instead of stderr.
.TP
.B detailed
Include source locations in log records.
.SS export
.TP
.B dir
Directory for exported reports and graph images. Default: ~/.cache/perf\-pulse.
`)
}

func writeFiles(b *strings.Builder) {
	b.WriteString(`.SH FILES
.TP
.I ~/.config/perf\-pulse/config.yaml
Default configuration file.
.TP
.I ~/.cache/perf\-pulse/report.json
Last exported report.
.TP
.I ~/.cache/perf\-pulse/fps.png, cpu.png, memory.png
Last exported graph images.
`)
}

func writeExamples(b *strings.Builder) {
	b.WriteString(`.SH EXAMPLES
Launch the dashboard:
.PP
.nf
perf\-pulse
.fi
.PP
Sample two seconds at 60 Hz and print JSON:
.PP
.nf
perf\-pulse \-headless \-ticks 120 \-json
.fi
.PP
Export graphs after a headless run:
.PP
.nf
perf\-pulse \-headless \-export /tmp/perf
.fi
.PP
Show the last export:
.PP
.nf
perf\-pulse \-last \-export /tmp/perf
.fi
`)
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(`.SH ENVIRONMENT
.TP
.B PERF_PULSE_CAPACITY
Override history.capacity.
.TP
.B PERF_PULSE_INTERVAL
Override sampling.interval.
.TP
.B NO_COLOR
Disable colored output.
`)
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(".SH EXIT STATUS\n")
	b.WriteString(".TP\n.B 0\n")
	b.WriteString("Success.\n")
	b.WriteString(".TP\n.B 1\n")
	b.WriteString("Invalid configuration, initialization failure, or export failure.\n")
}

func writeSeeAlso(b *strings.Builder) {
	b.WriteString(`.SH SEE ALSO
.BR top (1),
.BR htop (1)
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, ".SH VERSION\n%s (%s) built %s\n", version, commit, date)
}
