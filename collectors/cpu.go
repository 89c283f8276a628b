package collectors

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	// DefaultCPUWindow is the number of CPU time samples the recorder keeps.
	DefaultCPUWindow = 16

	// DefaultCPUSampleInterval is the recorder's sampling period, one
	// frame at 60 Hz.
	DefaultCPUSampleInterval = 16 * time.Millisecond
)

// RusageRecorder is a CPUTimerProvider that samples process CPU time
// (user + system) once per interval and keeps the per-interval deltas, in
// microseconds, in a fixed-size window.
type RusageRecorder struct {
	logger   *slog.Logger
	clock    clock.Clock
	interval time.Duration

	// readCPU returns cumulative process CPU time. Overridable for testing.
	readCPU func() (time.Duration, error)

	mu      sync.Mutex
	window  []int64
	next    int
	count   int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewRusageRecorder creates a recorder keeping window samples taken every
// interval. Non-positive arguments fall back to the defaults; a nil clock
// uses wall time and a nil logger discards output.
func NewRusageRecorder(window int, interval time.Duration, c clock.Clock, logger *slog.Logger) *RusageRecorder {
	if window <= 0 {
		window = DefaultCPUWindow
	}
	if interval <= 0 {
		interval = DefaultCPUSampleInterval
	}
	if c == nil {
		c = clock.New()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RusageRecorder{
		logger:   logger,
		clock:    c,
		interval: interval,
		readCPU:  processCPUTime,
		window:   make([]int64, window),
	}
}

// Start takes a baseline reading and begins sampling in the background.
// Calling Start on a running recorder is a no-op.
func (r *RusageRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}
	if r.readCPU == nil {
		return fmt.Errorf("collectors: cpu recorder: process cpu time not supported: %w", ErrResourceUnavailable)
	}

	baseline, err := r.readCPU()
	if err != nil {
		return fmt.Errorf("collectors: cpu recorder: read baseline: %v: %w", err, ErrResourceUnavailable)
	}

	// The ticker is created before the goroutine starts so that a mock
	// clock advanced right after Start still fires it.
	ticker := r.clock.Ticker(r.interval)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.running = true

	go r.loop(ticker, baseline, r.stop, r.done)

	r.logger.Debug("cpu recorder started", "interval", r.interval, "window", len(r.window))
	return nil
}

// Stop halts sampling, waits for the sampling goroutine and clears the
// window. It is idempotent.
func (r *RusageRecorder) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	stop, done := r.stop, r.done
	r.running = false
	r.mu.Unlock()

	close(stop)
	<-done

	r.mu.Lock()
	r.next, r.count = 0, 0
	r.mu.Unlock()

	r.logger.Debug("cpu recorder stopped")
	return nil
}

// ReadAverageMillis returns sum(samples)/count converted from
// microseconds to milliseconds.
func (r *RusageRecorder) ReadAverageMillis() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return 0, false
	}
	var sum int64
	for i := 0; i < r.count; i++ {
		sum += r.window[i]
	}
	avgMicros := float64(sum) / float64(r.count)
	return avgMicros / 1000.0, true
}

// Running reports whether the recorder is sampling.
func (r *RusageRecorder) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *RusageRecorder) loop(ticker *clock.Ticker, prev time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now, err := r.readCPU()
			if err != nil {
				r.logger.Warn("cpu recorder read failed", "error", err)
				continue
			}
			delta := now - prev
			prev = now
			if delta < 0 {
				continue
			}
			r.record(delta.Microseconds())
		}
	}
}

// record stores one sample, overwriting the oldest once the window is full.
func (r *RusageRecorder) record(micros int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.window[r.next] = micros
	r.next = (r.next + 1) % len(r.window)
	if r.count < len(r.window) {
		r.count++
	}
}

// NoopTimer is the CPUTimerProvider used where process CPU time cannot
// be read. It never reports a sample.
type NoopTimer struct{}

// Start implements CPUTimerProvider.
func (NoopTimer) Start() error { return nil }

// Stop implements CPUTimerProvider.
func (NoopTimer) Stop() error { return nil }

// ReadAverageMillis implements CPUTimerProvider.
func (NoopTimer) ReadAverageMillis() (float64, bool) { return 0, false }

// NewCPUTimer returns a RusageRecorder where the platform supports it and
// a NoopTimer elsewhere.
func NewCPUTimer(window int, interval time.Duration, c clock.Clock, logger *slog.Logger) CPUTimerProvider {
	if processCPUTime == nil {
		return NoopTimer{}
	}
	return NewRusageRecorder(window, interval, c, logger)
}

var (
	_ CPUTimerProvider = (*RusageRecorder)(nil)
	_ CPUTimerProvider = NoopTimer{}
)
