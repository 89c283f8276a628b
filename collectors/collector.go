// Package collectors provides the per-tick metric samplers for perf-pulse
// and the providers that read raw values from the frame clock, the Go
// runtime, and the operating system. Each sampler owns exactly one
// rolling series and never touches another.
package collectors

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// Source produces one raw scalar per tick. Sample returns ok=false when
// there is nothing to record this tick (for example a zero frame delta).
type Source interface {
	// Kind identifies which metric the source feeds.
	Kind() metrics.Kind

	// Sample reads the current value.
	Sample() (value float64, ok bool)
}

// SamplerStats counts what happened across all ticks of a sampler.
type SamplerStats struct {
	Ticks    uint64 `json:"ticks"`
	Recorded uint64 `json:"recorded"`
	Skipped  uint64 `json:"skipped"`
	Rejected uint64 `json:"rejected"`
}

// Sampler pulls from a Source on every Tick and pushes into its series.
type Sampler struct {
	source Source
	series *metrics.Series
	logger *slog.Logger

	ticks    atomic.Uint64
	recorded atomic.Uint64
	skipped  atomic.Uint64
	rejected atomic.Uint64
}

// NewSampler wires a source to the series it feeds.
// If logger is nil, a no-op logger is used.
func NewSampler(source Source, series *metrics.Series, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{
		source: source,
		series: series,
		logger: logger.With("metric", source.Kind().String()),
	}
}

// Kind returns the metric kind of the underlying source.
func (s *Sampler) Kind() metrics.Kind {
	return s.source.Kind()
}

// Series returns the series this sampler feeds.
func (s *Sampler) Series() *metrics.Series {
	return s.series
}

// Tick pulls one value and records it. It reports whether a sample was
// pushed. A rejected value is logged and leaves the series unchanged.
func (s *Sampler) Tick() bool {
	s.ticks.Add(1)

	value, ok := s.source.Sample()
	if !ok {
		s.skipped.Add(1)
		return false
	}

	if err := s.series.Push(value); err != nil {
		s.rejected.Add(1)
		if errors.Is(err, metrics.ErrInvalidArgument) {
			s.logger.Debug("sample rejected", "value", value, "error", err)
		}
		return false
	}

	s.recorded.Add(1)
	return true
}

// Stats returns the tick counters.
func (s *Sampler) Stats() SamplerStats {
	return SamplerStats{
		Ticks:    s.ticks.Load(),
		Recorded: s.recorded.Load(),
		Skipped:  s.skipped.Load(),
		Rejected: s.rejected.Load(),
	}
}

// Registry holds samplers keyed by kind, in registration order.
type Registry struct {
	samplers []*Sampler
}

// NewRegistry creates a new empty sampler registry.
func NewRegistry() *Registry {
	return &Registry{
		samplers: make([]*Sampler, 0, len(metrics.Kinds())),
	}
}

// Register adds a sampler to the registry.
// If a sampler of the same kind already exists, it is replaced.
func (r *Registry) Register(s *Sampler) {
	for i, existing := range r.samplers {
		if existing.Kind() == s.Kind() {
			r.samplers[i] = s
			return
		}
	}
	r.samplers = append(r.samplers, s)
}

// Get returns the sampler for kind. The second return value indicates
// whether it was found.
func (r *Registry) Get(kind metrics.Kind) (*Sampler, bool) {
	for _, s := range r.samplers {
		if s.Kind() == kind {
			return s, true
		}
	}
	return nil, false
}

// All returns all registered samplers.
func (r *Registry) All() []*Sampler {
	result := make([]*Sampler, len(r.samplers))
	copy(result, r.samplers)
	return result
}

// TickAll ticks every sampler once and returns how many recorded a value.
func (r *Registry) TickAll() int {
	recorded := 0
	for _, s := range r.samplers {
		if s.Tick() {
			recorded++
		}
	}
	return recorded
}
