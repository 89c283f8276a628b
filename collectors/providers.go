package collectors

import (
	"errors"
	"math"
	"sync"

	"github.com/c2h5oh/datasize"

	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// ErrResourceUnavailable is returned when a platform sampling facility
// cannot be acquired. Samplers recover from it locally.
var ErrResourceUnavailable = errors.New("resource unavailable")

// DeltaTimeProvider reports the wall time elapsed since its previous call.
type DeltaTimeProvider interface {
	UnscaledDeltaSeconds() float64
}

// CPUTimerProvider is a scoped CPU time recorder. While started it keeps a
// rolling window of per-interval CPU time samples.
type CPUTimerProvider interface {
	// Start begins recording. It returns an error wrapping
	// ErrResourceUnavailable when the platform timer cannot be used.
	Start() error

	// Stop releases the recorder. It is idempotent and safe to call
	// without a prior Start.
	Stop() error

	// ReadAverageMillis returns the mean of the buffered samples in
	// milliseconds. ok is false while no samples are buffered.
	ReadAverageMillis() (ms float64, ok bool)
}

// MemoryProvider reads process heap usage and the machine's total memory.
type MemoryProvider interface {
	CurrentHeapBytes() uint64
	TotalSystemMemoryMiB() float64
}

// FPSSource converts frame deltas into frames per second.
type FPSSource struct {
	delta DeltaTimeProvider
}

// NewFPSSource creates an FPS source backed by delta.
func NewFPSSource(delta DeltaTimeProvider) *FPSSource {
	return &FPSSource{delta: delta}
}

// Kind returns metrics.KindFPS.
func (s *FPSSource) Kind() metrics.Kind { return metrics.KindFPS }

// Sample returns 1/delta. A zero, negative or non-finite delta yields no
// sample so that the mean is never fed an infinite rate.
func (s *FPSSource) Sample() (float64, bool) {
	d := s.delta.UnscaledDeltaSeconds()
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, false
	}
	return 1.0 / d, true
}

// CPUSource reports the recorder's average frame CPU time in milliseconds.
// When the recorder has nothing buffered, the last known value is repeated.
type CPUSource struct {
	timer CPUTimerProvider

	mu   sync.Mutex
	last float64
}

// NewCPUSource creates a CPU source backed by timer.
func NewCPUSource(timer CPUTimerProvider) *CPUSource {
	return &CPUSource{timer: timer}
}

// Kind returns metrics.KindCPU.
func (s *CPUSource) Kind() metrics.Kind { return metrics.KindCPU }

// Sample returns the current or last known CPU time.
func (s *CPUSource) Sample() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ms, ok := s.timer.ReadAverageMillis(); ok {
		s.last = ms
	}
	return s.last, true
}

// MemorySource reports heap usage in MiB.
type MemorySource struct {
	mem MemoryProvider
}

// NewMemorySource creates a memory source backed by mem.
func NewMemorySource(mem MemoryProvider) *MemorySource {
	return &MemorySource{mem: mem}
}

// Kind returns metrics.KindMemory.
func (s *MemorySource) Kind() metrics.Kind { return metrics.KindMemory }

// Sample returns the heap size in MiB.
func (s *MemorySource) Sample() (float64, bool) {
	return datasize.ByteSize(s.mem.CurrentHeapBytes()).MBytes(), true
}
