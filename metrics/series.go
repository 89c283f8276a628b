// Package metrics provides the bounded rolling series that back every
// overlay graph, the group that shares one capacity across them, and the
// read-only snapshots handed to the display layer.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrInvalidArgument is returned when a sample or capacity is rejected.
// The series state is left untouched whenever it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// Snapshot is an immutable, point-in-time read of a Series.
type Snapshot struct {
	// Current is the newest sample (0 when empty).
	Current float64 `json:"current"`

	// Average is the arithmetic mean of History (0 when empty).
	Average float64 `json:"average"`

	// History holds the retained samples, oldest first.
	History []float64 `json:"history"`

	// Max is the largest retained sample (0 when empty).
	Max float64 `json:"max"`
}

// IsEmpty reports whether the snapshot holds no samples.
func (s Snapshot) IsEmpty() bool {
	return len(s.History) == 0
}

// Series is a bounded FIFO of float64 samples with a running mean.
// Samples are evicted from the front (oldest first) whenever the length
// would exceed the capacity. All methods are safe for concurrent use.
type Series struct {
	mu sync.Mutex

	// buf[head:] are the retained samples. The prefix is dead space that
	// is compacted away once it grows past the capacity.
	buf  []float64
	head int

	capacity int
	sum      float64
	mean     float64
}

// NewSeries creates an empty series with the given capacity.
func NewSeries(capacity int) (*Series, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("metrics: new series with capacity %d: %w", capacity, ErrInvalidArgument)
	}
	return &Series{capacity: capacity}, nil
}

// Push appends value as the newest sample, evicting the oldest samples
// while the series is over capacity, then updates the mean.
// NaN and infinite values are rejected with ErrInvalidArgument.
func (s *Series) Push(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("metrics: push %v: %w", value, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = append(s.buf, value)
	s.sum += value
	if s.evictLocked(s.capacity) || math.IsInf(s.sum, 0) {
		s.resumLocked()
	}
	s.updateMeanLocked()
	return nil
}

// SetCapacity changes the maximum length and trims the oldest samples
// until the series fits. Capacities below 1 are rejected.
func (s *Series) SetCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("metrics: set capacity %d: %w", capacity, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCapacityLocked(capacity)
	return nil
}

// setCapacityLocked assumes s.mu is held and capacity >= 1.
func (s *Series) setCapacityLocked(capacity int) {
	s.capacity = capacity
	if s.lenLocked() > capacity {
		s.evictLocked(capacity)
		s.resumLocked()
		s.updateMeanLocked()
	}
}

// Capacity returns the current maximum length.
func (s *Series) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// Len returns the number of retained samples.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lenLocked()
}

// Mean returns the running mean of the retained samples.
func (s *Series) Mean() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mean
}

// Snapshot returns an independent copy of the series state.
func (s *Series) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.buf[s.head:]
	if len(live) == 0 {
		return Snapshot{History: []float64{}}
	}

	history := make([]float64, len(live))
	copy(history, live)

	maxVal := history[0]
	for _, v := range history[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	return Snapshot{
		Current: history[len(history)-1],
		Average: s.mean,
		History: history,
		Max:     maxVal,
	}
}

// Reset drops every sample and releases the backing buffer.
// The capacity is kept.
func (s *Series) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
	s.head = 0
	s.sum = 0
	s.mean = 0
}

func (s *Series) lenLocked() int {
	return len(s.buf) - s.head
}

// evictLocked drops samples from the front until at most limit remain
// and reports whether any were dropped. The caller must re-sum after a
// drop; subtracting a large evicted sample cancels the small ones.
func (s *Series) evictLocked(limit int) bool {
	dropped := false
	for s.lenLocked() > limit {
		s.buf[s.head] = 0
		s.head++
		dropped = true
	}

	// Compact once the dead prefix is as large as the capacity so the
	// backing array stays within 2x capacity.
	if s.head > 0 && s.head >= s.capacity {
		n := copy(s.buf, s.buf[s.head:])
		s.buf = s.buf[:n]
		s.head = 0
	}
	return dropped
}

// resumLocked recomputes the sum from the retained samples.
func (s *Series) resumLocked() {
	var sum float64
	for _, v := range s.buf[s.head:] {
		sum += v
	}
	s.sum = sum
}

// updateMeanLocked derives the mean from the sum. When the sum overflows,
// the samples are averaged one scaled term at a time instead.
func (s *Series) updateMeanLocked() {
	n := s.lenLocked()
	if n == 0 {
		s.mean = 0
		return
	}
	if !math.IsInf(s.sum, 0) {
		s.mean = s.sum / float64(n)
		return
	}
	var mean float64
	for _, v := range s.buf[s.head:] {
		mean += v / float64(n)
	}
	s.mean = mean
}
