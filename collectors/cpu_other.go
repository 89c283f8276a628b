//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package collectors

import "time"

// processCPUTime is unavailable on this platform; NewCPUTimer selects
// NoopTimer instead.
var processCPUTime func() (time.Duration, error)
