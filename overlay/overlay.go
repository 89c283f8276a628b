// Package overlay is the facade the display layer talks to. It owns the
// shared-capacity series group, one sampler per metric kind, and the CPU
// recorder lifecycle, and it answers snapshot and graph queries.
package overlay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"

	"gitlab.com/tinyland/lab/perf-pulse/collectors"
	"gitlab.com/tinyland/lab/perf-pulse/graph"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// Scale floors per metric.
const (
	FPSFloor = 60.0
	CPUFloor = 16.6
)

// Line colors per metric.
const (
	FPSColor    = lipgloss.Color("#00FFFF")
	CPUColor    = lipgloss.Color("#00FF00")
	MemoryColor = lipgloss.Color("#FF00FF")
)

// ErrAlreadyInitialized is returned by a second call to Initialize.
var ErrAlreadyInitialized = errors.New("overlay: already initialized")

// Options configures an Overlay. Zero values select the defaults.
type Options struct {
	// Capacity is the initial shared history length.
	Capacity int
	// MinCapacity and MaxCapacity bound SetSharedCapacity.
	MinCapacity int
	MaxCapacity int

	// Clock drives the frame clock and the CPU recorder. Nil uses wall time.
	Clock clock.Clock

	// Delta overrides the frame clock.
	Delta collectors.DeltaTimeProvider
	// CPUTimer overrides the platform CPU recorder.
	CPUTimer collectors.CPUTimerProvider
	// Memory overrides the runtime memory provider.
	Memory collectors.MemoryProvider

	// CPUWindow and CPUInterval configure the platform CPU recorder.
	CPUWindow   int
	CPUInterval time.Duration

	// MemoryCeilingMiB replaces the detected total system memory as the
	// memory graph floor when positive.
	MemoryCeilingMiB float64

	Logger *slog.Logger
}

// Overlay samples FPS, CPU and memory into capacity-shared rolling series.
type Overlay struct {
	logger   *slog.Logger
	group    *metrics.Group
	registry *collectors.Registry
	frames   *collectors.FrameClock
	cpuTimer collectors.CPUTimerProvider
	memory   collectors.MemoryProvider

	memoryCeiling float64

	mu          sync.RWMutex
	totalMemMiB float64
	initialized bool
	disposed    bool
	cpuDegraded bool
}

// New builds the series group, the sources and the samplers.
func New(opts Options) (*Overlay, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	capacity := opts.Capacity
	if capacity == 0 {
		capacity = metrics.DefaultCapacity
	}
	min, max := opts.MinCapacity, opts.MaxCapacity
	if min == 0 {
		min = metrics.DefaultMinCapacity
	}
	if max == 0 {
		max = metrics.DefaultMaxCapacity
	}

	group, err := metrics.NewGroup(capacity, min, max)
	if err != nil {
		return nil, fmt.Errorf("overlay: new: %w", err)
	}

	o := &Overlay{
		logger:        logger,
		group:         group,
		registry:      collectors.NewRegistry(),
		cpuTimer:      opts.CPUTimer,
		memory:        opts.Memory,
		memoryCeiling: opts.MemoryCeilingMiB,
	}

	delta := opts.Delta
	if delta == nil {
		o.frames = collectors.NewFrameClock(opts.Clock)
		delta = o.frames
	}
	if o.cpuTimer == nil {
		o.cpuTimer = collectors.NewCPUTimer(opts.CPUWindow, opts.CPUInterval, opts.Clock, logger)
	}
	if o.memory == nil {
		o.memory = collectors.NewRuntimeMemory(logger)
	}

	sources := []collectors.Source{
		collectors.NewFPSSource(delta),
		collectors.NewCPUSource(o.cpuTimer),
		collectors.NewMemorySource(o.memory),
	}
	for _, src := range sources {
		o.registry.Register(collectors.NewSampler(src, group.NewSeries(), logger))
	}

	return o, nil
}

// Initialize starts the CPU recorder and resolves total system memory.
// A recorder that cannot start degrades the CPU graph to its last known
// value rather than failing.
func (o *Overlay) Initialize() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return ErrAlreadyInitialized
	}
	o.initialized = true
	o.disposed = false

	if err := o.cpuTimer.Start(); err != nil {
		o.cpuDegraded = true
		o.logger.Warn("cpu recorder unavailable, holding last value", "error", err)
	}

	o.totalMemMiB = o.memory.TotalSystemMemoryMiB()
	o.logger.Info("overlay initialized",
		"capacity", o.group.SharedCapacity(),
		"total_memory_mib", o.totalMemMiB,
	)
	return nil
}

// Dispose stops the recorder and releases all history. It is idempotent.
func (o *Overlay) Dispose() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.disposed {
		return nil
	}
	o.disposed = true
	o.initialized = false

	var result *multierror.Error
	if err := o.cpuTimer.Stop(); err != nil {
		result = multierror.Append(result, fmt.Errorf("overlay: stop cpu recorder: %w", err))
	}
	for _, s := range o.registry.All() {
		s.Series().Reset()
	}
	if o.frames != nil {
		o.frames.Reset()
	}

	o.logger.Debug("overlay disposed")
	return result.ErrorOrNil()
}

// Tick runs every sampler once and returns how many recorded a value.
func (o *Overlay) Tick() int {
	return o.registry.TickAll()
}

// Snapshot returns an independent copy of the kind's current state.
func (o *Overlay) Snapshot(kind metrics.Kind) metrics.Snapshot {
	s, ok := o.registry.Get(kind)
	if !ok {
		return metrics.Snapshot{History: []float64{}}
	}
	return s.Series().Snapshot()
}

// GraphSpec returns the scale floor and colors for kind.
func (o *Overlay) GraphSpec(kind metrics.Kind) graph.Spec {
	switch kind {
	case metrics.KindFPS:
		return SpecFor(kind, FPSFloor)
	case metrics.KindCPU:
		return SpecFor(kind, CPUFloor)
	default:
		return SpecFor(kind, o.MemoryFloor())
	}
}

// SpecFor returns the graph spec for kind with the given floor.
func SpecFor(kind metrics.Kind, floor float64) graph.Spec {
	switch kind {
	case metrics.KindFPS:
		return graph.Spec{Floor: floor, LineColor: FPSColor}
	case metrics.KindCPU:
		return graph.Spec{Floor: floor, LineColor: CPUColor}
	default:
		return graph.Spec{Floor: floor, LineColor: MemoryColor}
	}
}

// GraphPoints projects the kind's history onto rect.
func (o *Overlay) GraphPoints(kind metrics.Kind, rect graph.Rect) []graph.Point {
	snap := o.Snapshot(kind)
	return graph.Project(snap.History, rect, o.GraphSpec(kind).Floor)
}

// MemoryFloor returns the memory graph floor in MiB: the configured
// ceiling if any, otherwise the detected total system memory.
func (o *Overlay) MemoryFloor() float64 {
	if o.memoryCeiling > 0 {
		return o.memoryCeiling
	}
	return o.TotalMemoryMiB()
}

// TotalMemoryMiB returns the detected total system memory in MiB, or 0
// when it is unknown. It ignores any configured ceiling.
func (o *Overlay) TotalMemoryMiB() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.totalMemMiB
}

// SetSharedCapacity resizes every history. Out of range values are
// rejected with metrics.ErrInvalidArgument.
func (o *Overlay) SetSharedCapacity(n int) error {
	if err := o.group.SetSharedCapacity(n); err != nil {
		return err
	}
	o.logger.Debug("shared capacity changed", "capacity", n)
	return nil
}

// SharedCapacity returns the current history length limit.
func (o *Overlay) SharedCapacity() int {
	return o.group.SharedCapacity()
}

// CapacityRange returns the accepted capacity bounds.
func (o *Overlay) CapacityRange() (min, max int) {
	return o.group.Range()
}

// CPUDegraded reports whether the CPU recorder failed to start.
func (o *Overlay) CPUDegraded() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cpuDegraded
}

// Stats returns the sampler counters for kind.
func (o *Overlay) Stats(kind metrics.Kind) collectors.SamplerStats {
	s, ok := o.registry.Get(kind)
	if !ok {
		return collectors.SamplerStats{}
	}
	return s.Stats()
}
