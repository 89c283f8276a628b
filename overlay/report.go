package overlay

import (
	"time"

	"gitlab.com/tinyland/lab/perf-pulse/collectors"
	"gitlab.com/tinyland/lab/perf-pulse/graph"
	"gitlab.com/tinyland/lab/perf-pulse/internal/format"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// MetricReport is one metric's state at report time.
type MetricReport struct {
	Kind     metrics.Kind            `json:"kind"`
	Title    string                  `json:"title"`
	Unit     string                  `json:"unit"`
	Label    string                  `json:"label"`
	Floor    float64                 `json:"floor"`
	Ceiling  float64                 `json:"ceiling"`
	Snapshot metrics.Snapshot        `json:"snapshot"`
	Stats    collectors.SamplerStats `json:"stats"`
}

// Report is a point-in-time view of every metric.
type Report struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	Capacity       int            `json:"capacity"`
	MinCapacity    int            `json:"min_capacity"`
	MaxCapacity    int            `json:"max_capacity"`
	TotalMemoryMiB float64        `json:"total_memory_mib"`
	MemoryFloorMiB float64        `json:"memory_floor_mib"`
	CPUDegraded    bool           `json:"cpu_degraded"`
	Metrics        []MetricReport `json:"metrics"`
}

// Metric returns the report entry for kind.
func (r Report) Metric(kind metrics.Kind) (MetricReport, bool) {
	for _, m := range r.Metrics {
		if m.Kind == kind {
			return m, true
		}
	}
	return MetricReport{}, false
}

// Report collects snapshots, graph scales and display labels for all
// metrics.
func (o *Overlay) Report() Report {
	min, max := o.CapacityRange()
	r := Report{
		GeneratedAt:    time.Now(),
		Capacity:       o.SharedCapacity(),
		MinCapacity:    min,
		MaxCapacity:    max,
		TotalMemoryMiB: o.TotalMemoryMiB(),
		MemoryFloorMiB: o.MemoryFloor(),
		CPUDegraded:    o.CPUDegraded(),
		Metrics:        make([]MetricReport, 0, len(metrics.Kinds())),
	}

	for _, kind := range metrics.Kinds() {
		snap := o.Snapshot(kind)
		spec := o.GraphSpec(kind)
		r.Metrics = append(r.Metrics, MetricReport{
			Kind:     kind,
			Title:    kind.Title(),
			Unit:     kind.Unit(),
			Label:    Label(kind, snap.Current, r.TotalMemoryMiB),
			Floor:    spec.Floor,
			Ceiling:  graph.Ceiling(snap.History, spec.Floor),
			Snapshot: snap,
			Stats:    o.Stats(kind),
		})
	}
	return r
}

// Label formats a current value the way the overlay displays it.
func Label(kind metrics.Kind, current, totalMemoryMiB float64) string {
	switch kind {
	case metrics.KindFPS:
		return format.FPS(current)
	case metrics.KindCPU:
		return format.CPU(current)
	default:
		return format.Memory(current, totalMemoryMiB)
	}
}
