package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the TUI application.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	ToggleFPS    key.Binding
	ToggleCPU    key.Binding
	ToggleMemory key.Binding
	CapacityUp   key.Binding
	CapacityDown key.Binding
	CapacityMin  key.Binding
	CapacityMax  key.Binding
	Export       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// ShortHelp returns the compact set of keybindings shown by default in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleFPS, k.ToggleCPU, k.ToggleMemory, k.CapacityUp, k.CapacityDown, k.Help, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleFPS, k.ToggleCPU, k.ToggleMemory},
		{k.CapacityUp, k.CapacityDown, k.CapacityMin, k.CapacityMax},
		{k.Export, k.Help, k.Quit},
	}
}

// keys holds the default key bindings used by the application.
var keys = keyMap{
	ToggleFPS:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fps")),
	ToggleCPU:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cpu")),
	ToggleMemory: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "memory")),
	CapacityUp:   key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+", "more history")),
	CapacityDown: key.NewBinding(key.WithKeys("-", "_", "down"), key.WithHelp("-", "less history")),
	CapacityMin:  key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "min history")),
	CapacityMax:  key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "max history")),
	Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}
