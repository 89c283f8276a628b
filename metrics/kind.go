package metrics

import (
	"fmt"
	"strings"
)

// Kind identifies one of the sampled metrics.
type Kind int

const (
	KindFPS Kind = iota
	KindCPU
	KindMemory
	kindCount // sentinel
)

// Kinds returns every metric kind in display order.
func Kinds() []Kind {
	return []Kind{KindFPS, KindCPU, KindMemory}
}

// String returns the lowercase identifier used in config and file names.
func (k Kind) String() string {
	switch k {
	case KindFPS:
		return "fps"
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Title returns the display label.
func (k Kind) Title() string {
	switch k {
	case KindFPS:
		return "FPS"
	case KindCPU:
		return "CPU Usage"
	case KindMemory:
		return "Memory Usage"
	default:
		return "Unknown"
	}
}

// Unit returns the unit suffix shown next to values.
func (k Kind) Unit() string {
	switch k {
	case KindFPS:
		return "FPS"
	case KindCPU:
		return "ms"
	case KindMemory:
		return "MiB"
	default:
		return ""
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind parses a kind identifier, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fps":
		return KindFPS, nil
	case "cpu":
		return KindCPU, nil
	case "memory", "mem":
		return KindMemory, nil
	default:
		return 0, fmt.Errorf("metrics: unknown kind %q: %w", s, ErrInvalidArgument)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
