package collectors

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// FrameClock is a DeltaTimeProvider that measures the time between
// consecutive calls. The first call returns 0, which FPSSource treats as
// "no sample".
type FrameClock struct {
	clock clock.Clock

	mu   sync.Mutex
	last time.Time
}

// NewFrameClock creates a frame clock. A nil clock uses wall time.
func NewFrameClock(c clock.Clock) *FrameClock {
	if c == nil {
		c = clock.New()
	}
	return &FrameClock{clock: c}
}

// UnscaledDeltaSeconds returns the seconds elapsed since the previous call.
func (f *FrameClock) UnscaledDeltaSeconds() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	if f.last.IsZero() {
		f.last = now
		return 0
	}
	d := now.Sub(f.last)
	f.last = now
	return d.Seconds()
}

// Reset forgets the previous frame so the next call returns 0 again.
func (f *FrameClock) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = time.Time{}
}
