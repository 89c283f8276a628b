package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"gitlab.com/tinyland/lab/perf-pulse/display/tui"
)

// keyJSON is one keybinding in -keys -format json output.
type keyJSON struct {
	Keys      []string `json:"keys"`
	Help      string   `json:"help"`
	Category  string   `json:"category"`
	Clickable bool     `json:"clickable"`
}

// runKeysCommand prints all keybindings to w as a table or JSON.
func runKeysCommand(w io.Writer, format string) error {
	reg := tui.DefaultRegistry()

	switch strings.ToLower(format) {
	case "json":
		entries := make([]keyJSON, 0, len(reg.Entries))
		for _, e := range reg.Entries {
			entries = append(entries, keyJSON{
				Keys:      e.Binding.Keys(),
				Help:      e.Binding.Help().Desc,
				Category:  string(e.Category),
				Clickable: e.Mouse,
			})
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal keys: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "", "table":
		_, err := fmt.Fprint(w, reg.FormatTable())
		return err

	default:
		return fmt.Errorf("unknown keys format %q (supported: table, json)", format)
	}
}
