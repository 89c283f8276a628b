//go:build linux

package collectors

import "golang.org/x/sys/unix"

// systemMemoryBytes returns the total physical memory reported by sysinfo(2).
func systemMemoryBytes() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}
