package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/perf-pulse/export"
	"gitlab.com/tinyland/lab/perf-pulse/internal/format"
)

// errNoReport is returned by -last when the export directory has no report.
var errNoReport = errors.New("no report exported")

// runLastCommand prints the report last exported to dir, as JSON or as a
// short summary followed by the exported file names.
func runLastCommand(w io.Writer, dir string, asJSON bool) error {
	store, err := export.NewStore(dir, nil)
	if err != nil {
		return err
	}
	r, err := store.ReadReport()
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("%w in %s", errNoReport, dir)
	}

	if asJSON {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Report %s (capacity %d, range %d-%d)\n",
		r.GeneratedAt.Format(time.RFC3339), r.Capacity, r.MinCapacity, r.MaxCapacity)
	for _, m := range r.Metrics {
		fmt.Fprintf(&b, "  %s %s\n", format.PadRight(m.Title, 14), m.Label)
	}
	if r.CPUDegraded {
		b.WriteString("  CPU recorder unavailable during this run\n")
	}
	fmt.Fprintf(&b, "Files in %s: %s\n", store.Dir(), strings.Join(store.Files(), ", "))
	_, err = fmt.Fprint(w, b.String())
	return err
}
