package metrics

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func mustSeries(t *testing.T, capacity int) *Series {
	t.Helper()
	s, err := NewSeries(capacity)
	if err != nil {
		t.Fatalf("NewSeries(%d): %v", capacity, err)
	}
	return s
}

func arithmeticMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func approxEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= 1e-9 {
		return true
	}
	return diff <= 1e-6*math.Max(math.Abs(a), math.Abs(b))
}

func TestNewSeries_RejectsZeroCapacity(t *testing.T) {
	if _, err := NewSeries(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewSeries(0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestSeries_PushEvictsOldest(t *testing.T) {
	s := mustSeries(t, 2)
	for _, v := range []float64{10, 20, 30} {
		if err := s.Push(v); err != nil {
			t.Fatalf("Push(%v): %v", v, err)
		}
	}

	snap := s.Snapshot()
	if len(snap.History) != 2 || snap.History[0] != 20 || snap.History[1] != 30 {
		t.Errorf("history = %v, want [20 30]", snap.History)
	}
	if snap.Average != 25 {
		t.Errorf("average = %v, want 25", snap.Average)
	}
	if snap.Current != 30 {
		t.Errorf("current = %v, want 30", snap.Current)
	}
	if snap.Max != 30 {
		t.Errorf("max = %v, want 30", snap.Max)
	}
}

func TestSeries_LengthIsMinOfPushesAndCapacity(t *testing.T) {
	tests := []struct {
		capacity int
		pushes   int
	}{
		{capacity: 1, pushes: 0},
		{capacity: 1, pushes: 5},
		{capacity: 3, pushes: 2},
		{capacity: 10, pushes: 10},
		{capacity: 10, pushes: 2500},
		{capacity: 1000, pushes: 999},
	}

	for _, tt := range tests {
		s := mustSeries(t, tt.capacity)
		for i := 0; i < tt.pushes; i++ {
			if err := s.Push(float64(i)); err != nil {
				t.Fatalf("Push: %v", err)
			}
		}
		want := tt.pushes
		if tt.capacity < want {
			want = tt.capacity
		}
		if got := s.Len(); got != want {
			t.Errorf("capacity=%d pushes=%d: len = %d, want %d", tt.capacity, tt.pushes, got, want)
		}
		if got := len(s.Snapshot().History); got != want {
			t.Errorf("capacity=%d pushes=%d: snapshot len = %d, want %d", tt.capacity, tt.pushes, got, want)
		}
	}
}

func TestSeries_MeanMatchesRetainedSamples(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := mustSeries(t, 97)

	// Values of mixed magnitude, far past the capacity.
	for i := 0; i < 5000; i++ {
		v := rng.Float64() * math.Pow(10, float64(rng.Intn(6)))
		if err := s.Push(v); err != nil {
			t.Fatalf("Push: %v", err)
		}
		if i%131 == 0 {
			snap := s.Snapshot()
			if want := arithmeticMean(snap.History); !approxEqual(snap.Average, want) {
				t.Fatalf("push %d: mean = %v, want %v", i, snap.Average, want)
			}
		}
	}

	snap := s.Snapshot()
	if want := arithmeticMean(snap.History); !approxEqual(snap.Average, want) {
		t.Errorf("final mean = %v, want %v", snap.Average, want)
	}
}

func TestSeries_MeanSurvivesEvictingLargeSamples(t *testing.T) {
	tests := []struct {
		name   string
		pushes []float64
	}{
		{"large then small", []float64{1e20, 1, 1}},
		{"overflowing sum", []float64{math.MaxFloat64, math.MaxFloat64, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSeries(t, 2)
			for _, v := range tt.pushes {
				if err := s.Push(v); err != nil {
					t.Fatalf("Push(%v): %v", v, err)
				}
			}

			snap := s.Snapshot()
			if len(snap.History) != 2 || snap.History[0] != 1 || snap.History[1] != 1 {
				t.Fatalf("history = %v, want [1 1]", snap.History)
			}
			if snap.Average != 1 {
				t.Errorf("mean = %v, want 1", snap.Average)
			}
		})
	}
}

func TestSeries_MeanOfHugeSamplesIsFinite(t *testing.T) {
	s := mustSeries(t, 4)
	for i := 0; i < 2; i++ {
		if err := s.Push(math.MaxFloat64); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Mean(); got != math.MaxFloat64 {
		t.Errorf("mean = %v, want %v", got, math.MaxFloat64)
	}
}

func TestSeries_PushRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := mustSeries(t, 4)
		_ = s.Push(1)
		_ = s.Push(3)

		if err := s.Push(v); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Push(%v) error = %v, want ErrInvalidArgument", v, err)
		}
		snap := s.Snapshot()
		if len(snap.History) != 2 || snap.Average != 2 {
			t.Errorf("after rejected Push(%v): history=%v mean=%v, want [1 3] mean 2", v, snap.History, snap.Average)
		}
	}
}

func TestSeries_PushAcceptsNegative(t *testing.T) {
	s := mustSeries(t, 4)
	if err := s.Push(-5); err != nil {
		t.Fatalf("Push(-5): %v", err)
	}
	if snap := s.Snapshot(); snap.Max != -5 || snap.Average != -5 {
		t.Errorf("snapshot = %+v, want max -5 mean -5", snap)
	}
}

func TestSeries_SetCapacityKeepsNewest(t *testing.T) {
	tests := []struct {
		name   string
		pushed []float64
		newCap int
		want   []float64
	}{
		{name: "shrink below length", pushed: []float64{1, 2, 3, 4, 5}, newCap: 2, want: []float64{4, 5}},
		{name: "shrink to one", pushed: []float64{1, 2, 3}, newCap: 1, want: []float64{3}},
		{name: "shrink above length", pushed: []float64{1, 2}, newCap: 3, want: []float64{1, 2}},
		{name: "grow", pushed: []float64{1, 2, 3, 4, 5}, newCap: 50, want: []float64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSeries(t, 10)
			for _, v := range tt.pushed {
				_ = s.Push(v)
			}
			if err := s.SetCapacity(tt.newCap); err != nil {
				t.Fatalf("SetCapacity(%d): %v", tt.newCap, err)
			}

			snap := s.Snapshot()
			if len(snap.History) != len(tt.want) {
				t.Fatalf("history = %v, want %v", snap.History, tt.want)
			}
			for i := range tt.want {
				if snap.History[i] != tt.want[i] {
					t.Errorf("history[%d] = %v, want %v", i, snap.History[i], tt.want[i])
				}
			}
			if want := arithmeticMean(tt.want); !approxEqual(snap.Average, want) {
				t.Errorf("mean = %v, want %v", snap.Average, want)
			}
		})
	}
}

func TestSeries_SetCapacityThenGrowAcceptsMore(t *testing.T) {
	s := mustSeries(t, 5)
	for i := 1; i <= 5; i++ {
		_ = s.Push(float64(i))
	}
	_ = s.SetCapacity(2)
	_ = s.SetCapacity(4)
	_ = s.Push(6)
	_ = s.Push(7)
	_ = s.Push(8)

	snap := s.Snapshot()
	want := []float64{5, 6, 7, 8}
	if len(snap.History) != len(want) {
		t.Fatalf("history = %v, want %v", snap.History, want)
	}
	for i := range want {
		if snap.History[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, snap.History[i], want[i])
		}
	}
}

func TestSeries_SetCapacityRejectsZero(t *testing.T) {
	s := mustSeries(t, 3)
	_ = s.Push(1)
	if err := s.SetCapacity(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetCapacity(0) error = %v, want ErrInvalidArgument", err)
	}
	if s.Capacity() != 3 {
		t.Errorf("capacity = %d, want 3", s.Capacity())
	}
}

func TestSeries_SnapshotIsIndependent(t *testing.T) {
	s := mustSeries(t, 3)
	_ = s.Push(1)
	_ = s.Push(2)

	snap := s.Snapshot()
	snap.History[0] = 99
	_ = s.Push(3)
	_ = s.Push(4)

	again := s.Snapshot()
	if again.History[0] != 2 {
		t.Errorf("series aliased snapshot: history = %v", again.History)
	}
	if len(snap.History) != 2 {
		t.Errorf("snapshot grew after push: %v", snap.History)
	}
}

func TestSeries_EmptySnapshot(t *testing.T) {
	s := mustSeries(t, 3)
	snap := s.Snapshot()
	if !snap.IsEmpty() {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if snap.Max != 0 || snap.Average != 0 || snap.Current != 0 {
		t.Errorf("empty snapshot = %+v, want zero values", snap)
	}
	if snap.History == nil {
		t.Error("empty snapshot history should be a non-nil empty slice")
	}
}

func TestSeries_Reset(t *testing.T) {
	s := mustSeries(t, 3)
	_ = s.Push(1)
	_ = s.Push(2)
	s.Reset()

	if s.Len() != 0 || s.Mean() != 0 {
		t.Errorf("after reset len=%d mean=%v, want 0 0", s.Len(), s.Mean())
	}
	if s.Capacity() != 3 {
		t.Errorf("reset changed capacity to %d", s.Capacity())
	}
	_ = s.Push(9)
	if snap := s.Snapshot(); snap.Average != 9 {
		t.Errorf("mean after reset push = %v, want 9", snap.Average)
	}
}

func TestSeries_BufferStaysBounded(t *testing.T) {
	s := mustSeries(t, 8)
	for i := 0; i < 10000; i++ {
		_ = s.Push(float64(i))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) > 2*s.capacity {
		t.Errorf("backing slice len = %d, want <= %d", len(s.buf), 2*s.capacity)
	}
}
