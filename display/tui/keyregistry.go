package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"gitlab.com/tinyland/lab/perf-pulse/internal/format"
)

// KeyCategory groups keybindings by function.
type KeyCategory string

const (
	CategoryDisplay KeyCategory = "display"
	CategoryHistory KeyCategory = "history"
	CategorySystem  KeyCategory = "system"
)

// KeyEntry represents a single registered keybinding with metadata.
type KeyEntry struct {
	// Binding is the charmbracelet key binding.
	Binding key.Binding
	// Category groups this binding by function.
	Category KeyCategory
	// Mouse is true when the action is also reachable by clicking.
	Mouse bool
}

// KeyRegistry is the single source of truth for all perf-pulse keybindings.
type KeyRegistry struct {
	Entries []KeyEntry
}

// DefaultRegistry returns the canonical key registry with all bindings.
func DefaultRegistry() *KeyRegistry {
	return &KeyRegistry{
		Entries: []KeyEntry{
			{Binding: keys.ToggleFPS, Category: CategoryDisplay, Mouse: true},
			{Binding: keys.ToggleCPU, Category: CategoryDisplay, Mouse: true},
			{Binding: keys.ToggleMemory, Category: CategoryDisplay, Mouse: true},

			{Binding: keys.CapacityUp, Category: CategoryHistory, Mouse: true},
			{Binding: keys.CapacityDown, Category: CategoryHistory, Mouse: true},
			{Binding: keys.CapacityMin, Category: CategoryHistory},
			{Binding: keys.CapacityMax, Category: CategoryHistory},

			{Binding: keys.Export, Category: CategorySystem},
			{Binding: keys.Help, Category: CategorySystem},
			{Binding: keys.Quit, Category: CategorySystem},
		},
	}
}

// ByCategory returns all entries matching the given category.
func (r *KeyRegistry) ByCategory(cat KeyCategory) []KeyEntry {
	var result []KeyEntry
	for _, e := range r.Entries {
		if e.Category == cat {
			result = append(result, e)
		}
	}
	return result
}

// HasDuplicateKeys checks for duplicate key assignments.
// Returns a list of conflicts (empty if none).
func (r *KeyRegistry) HasDuplicateKeys() []string {
	seen := make(map[string]string)
	var conflicts []string

	for _, e := range r.Entries {
		for _, k := range e.Binding.Keys() {
			if existing, ok := seen[k]; ok {
				conflicts = append(conflicts, fmt.Sprintf(
					"duplicate key %q: %s vs %s",
					k, existing, e.Binding.Help().Desc,
				))
			} else {
				seen[k] = e.Binding.Help().Desc
			}
		}
	}

	return conflicts
}

// FormatTable returns a formatted table of all keybindings.
func (r *KeyRegistry) FormatTable() string {
	var sb strings.Builder

	for _, cat := range []KeyCategory{CategoryDisplay, CategoryHistory, CategorySystem} {
		entries := r.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(string(cat))))
		sb.WriteString(strings.Repeat("-", 50) + "\n")

		for _, e := range entries {
			keysStr := strings.Join(e.Binding.Keys(), ", ")
			desc := e.Binding.Help().Desc
			if e.Mouse {
				desc += " (clickable)"
			}
			sb.WriteString("  " + format.PadRight(keysStr, 20) + "  " + desc + "\n")
		}
	}

	return sb.String()
}
