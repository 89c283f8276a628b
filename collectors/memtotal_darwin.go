//go:build darwin

package collectors

import "golang.org/x/sys/unix"

// systemMemoryBytes returns hw.memsize.
func systemMemoryBytes() (uint64, error) {
	return unix.SysctlUint64("hw.memsize")
}
