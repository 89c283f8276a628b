package tui

import (
	"strings"
	"testing"
)

func TestDefaultRegistry_NoDuplicates(t *testing.T) {
	if conflicts := DefaultRegistry().HasDuplicateKeys(); len(conflicts) > 0 {
		t.Errorf("duplicate keys: %v", conflicts)
	}
}

func TestDefaultRegistry_CoversKeyMap(t *testing.T) {
	r := DefaultRegistry()
	var total int
	for _, group := range keys.FullHelp() {
		total += len(group)
	}
	if len(r.Entries) != total {
		t.Errorf("registry has %d entries, help shows %d", len(r.Entries), total)
	}
	for _, e := range r.Entries {
		help := e.Binding.Help()
		if help.Key == "" || help.Desc == "" {
			t.Errorf("binding %v is missing help text", e.Binding.Keys())
		}
	}
}

func TestKeyRegistry_FormatTable(t *testing.T) {
	table := DefaultRegistry().FormatTable()
	for _, want := range []string{"DISPLAY:", "HISTORY:", "SYSTEM:", "fps (clickable)", "export"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}

func TestKeyRegistry_ByCategory(t *testing.T) {
	r := DefaultRegistry()
	if n := len(r.ByCategory(CategoryDisplay)); n != 3 {
		t.Errorf("display bindings = %d, want 3", n)
	}
	if n := len(r.ByCategory("nope")); n != 0 {
		t.Errorf("unknown category returned %d entries", n)
	}
}
