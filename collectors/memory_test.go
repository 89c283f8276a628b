package collectors

import (
	"errors"
	"testing"
)

func TestRuntimeMemory_CurrentHeapBytes(t *testing.T) {
	m := NewRuntimeMemory(nil)

	keep := make([]byte, 1<<20)
	keep[0] = 1
	if got := m.CurrentHeapBytes(); got == 0 {
		t.Error("expected a non-zero heap size")
	}
	_ = keep[0]
}

func TestRuntimeMemory_TotalSystemMemoryMiB(t *testing.T) {
	m := NewRuntimeMemory(nil)
	m.systemMemory = func() (uint64, error) { return 16 << 30, nil }
	if got := m.TotalSystemMemoryMiB(); got != 16384 {
		t.Errorf("TotalSystemMemoryMiB() = %v, want 16384", got)
	}

	m.systemMemory = func() (uint64, error) { return 0, errors.New("no sysinfo") }
	if got := m.TotalSystemMemoryMiB(); got != 0 {
		t.Errorf("TotalSystemMemoryMiB() on error = %v, want 0", got)
	}
}
