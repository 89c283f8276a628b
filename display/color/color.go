// Package color provides centralized color profile detection for perf-pulse.
//
// It implements the NO_COLOR convention (https://no-color.org/) and
// automatic pipe/redirect detection. When color is disabled, lipgloss is
// set to the Ascii profile so all styled renders produce plain text.
package color

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ShouldDisableColor returns true if color output to f should be suppressed.
// This happens when:
//   - The NO_COLOR environment variable is set (any value)
//   - f is not a terminal (pipe or redirect)
func ShouldDisableColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	if f == nil {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

// Apply configures the global lipgloss renderer for output to f. When color
// is enabled the profile is detected from the environment, so a terminal
// without truecolor support gets the closest ANSI palette instead of the
// hex graph colors.
// Returns true if color is enabled, false if disabled.
func Apply(f *os.File) bool {
	if ShouldDisableColor(f) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	lipgloss.SetColorProfile(termenv.NewOutput(f).EnvColorProfile())
	return true
}

// Color modes accepted by ApplyMode.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// ApplyMode configures the renderer for f according to mode. ModeAuto
// defers to Apply. It returns whether color is enabled.
func ApplyMode(mode string, f *os.File) (bool, error) {
	switch mode {
	case "", ModeAuto:
		return Apply(f), nil
	case ModeAlways:
		ForceTrueColor()
		return true, nil
	case ModeNever:
		ForceDisable()
		return false, nil
	default:
		return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
	}
}

// ForceDisable sets the lipgloss color profile to Ascii, unconditionally
// disabling all color output. This is useful for tests.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ForceTrueColor enables full 24-bit color regardless of the terminal.
func ForceTrueColor() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// StripANSI removes all ANSI escape sequences from a string. Output that
// bypasses lipgloss styling, such as the braille graph cells, goes through
// it when color is disabled.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
