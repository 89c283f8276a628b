package collectors

import (
	"io"
	"log/slog"
	"runtime/metrics"
	"sync"

	"github.com/c2h5oh/datasize"
)

// heapObjectsMetric is the runtime/metrics key for live plus unswept heap
// object bytes. Reading it does not stop the world.
const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// RuntimeMemory is the MemoryProvider backed by the Go runtime and the OS.
type RuntimeMemory struct {
	logger *slog.Logger

	mu     sync.Mutex
	sample []metrics.Sample

	// systemMemory is overridable for testing.
	systemMemory func() (uint64, error)
}

// NewRuntimeMemory creates a memory provider.
// If logger is nil, a no-op logger is used.
func NewRuntimeMemory(logger *slog.Logger) *RuntimeMemory {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RuntimeMemory{
		logger:       logger,
		sample:       []metrics.Sample{{Name: heapObjectsMetric}},
		systemMemory: systemMemoryBytes,
	}
}

// CurrentHeapBytes returns the bytes occupied by heap objects. The sample
// slice is reused, so reading allocates nothing.
func (m *RuntimeMemory) CurrentHeapBytes() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics.Read(m.sample)
	if m.sample[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return m.sample[0].Value.Uint64()
}

// TotalSystemMemoryMiB returns the machine's physical memory in MiB, or 0
// when it cannot be determined.
func (m *RuntimeMemory) TotalSystemMemoryMiB() float64 {
	total, err := m.systemMemory()
	if err != nil {
		m.logger.Warn("total system memory unavailable", "error", err)
		return 0
	}
	return datasize.ByteSize(total).MBytes()
}

var _ MemoryProvider = (*RuntimeMemory)(nil)
