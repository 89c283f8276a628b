//go:build !linux && !darwin

package collectors

import "errors"

func systemMemoryBytes() (uint64, error) {
	return 0, errors.New("total memory not supported on this platform")
}
