package graph

import (
	"math"
	"testing"
)

func TestProject_Scenario(t *testing.T) {
	points := Project([]float64{10, 20, 30, 40}, Rect{X: 0, Y: 0, W: 30, H: 10}, 40)

	wantX := []float64{0, 10, 20, 30}
	wantY := []float64{7.5, 5.0, 2.5, 0.0}
	if len(points) != 4 {
		t.Fatalf("len(points) = %d, want 4", len(points))
	}
	for i, p := range points {
		if math.Abs(p.X-wantX[i]) > 1e-9 {
			t.Errorf("points[%d].X = %v, want %v", i, p.X, wantX[i])
		}
		if math.Abs(p.Y-wantY[i]) > 1e-9 {
			t.Errorf("points[%d].Y = %v, want %v", i, p.Y, wantY[i])
		}
	}
}

func TestProject_BelowDrawableThreshold(t *testing.T) {
	rect := Rect{W: 100, H: 100}
	for _, history := range [][]float64{nil, {}, {42}} {
		points := Project(history, rect, 60)
		if points == nil || len(points) != 0 {
			t.Errorf("Project(%v) = %v, want empty non-nil slice", history, points)
		}
	}
}

func TestProject_Idempotent(t *testing.T) {
	history := []float64{12, 55, 3, 88, 41}
	rect := Rect{X: 4, Y: 9, W: 77, H: 31}

	a := Project(history, rect, 60)
	b := Project(history, rect, 60)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("points[%d] differ: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestProject_CeilingFollowsHistoryMax(t *testing.T) {
	// Max 120 exceeds the floor of 60, so 120 maps to the top edge.
	points := Project([]float64{60, 120}, Rect{W: 10, H: 10}, 60)
	if points[0].Y != 5 {
		t.Errorf("points[0].Y = %v, want 5", points[0].Y)
	}
	if points[1].Y != 0 {
		t.Errorf("points[1].Y = %v, want 0", points[1].Y)
	}
}

func TestProject_OffsetRect(t *testing.T) {
	points := Project([]float64{0, 50}, Rect{X: 100, Y: 200, W: 20, H: 40}, 50)
	want := []Point{{X: 100, Y: 240}, {X: 120, Y: 200}}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d] = %v, want %v", i, points[i], want[i])
		}
	}
}

func TestProject_ClampsNegative(t *testing.T) {
	points := Project([]float64{-10, 10}, Rect{W: 1, H: 10}, 10)
	if points[0].Y != 10 {
		t.Errorf("negative sample Y = %v, want bottom edge 10", points[0].Y)
	}
}

func TestProject_NoSignal(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		floor   float64
	}{
		{name: "all zero, zero floor", history: []float64{0, 0, 0}, floor: 0},
		{name: "all negative", history: []float64{-1, -2}, floor: -5},
		{name: "infinite floor", history: []float64{1, 2}, floor: math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if points := Project(tt.history, Rect{W: 10, H: 10}, tt.floor); len(points) != 0 {
				t.Errorf("expected no points, got %v", points)
			}
		})
	}
}

func TestProject_EvenSpacingAndBounds(t *testing.T) {
	history := make([]float64, 50)
	for i := range history {
		history[i] = float64(i * i)
	}
	rect := Rect{X: 3, Y: 5, W: 49, H: 20}
	points := Project(history, rect, 0)

	for i, p := range points {
		if p.Y < rect.Y || p.Y > rect.Y+rect.H {
			t.Errorf("points[%d].Y = %v outside [%v, %v]", i, p.Y, rect.Y, rect.Y+rect.H)
		}
		if wantX := rect.X + float64(i); math.Abs(p.X-wantX) > 1e-9 {
			t.Errorf("points[%d].X = %v, want %v", i, p.X, wantX)
		}
	}
	if last := points[len(points)-1]; last.X != rect.X+rect.W || last.Y != rect.Y {
		t.Errorf("last point = %v, want top-right corner", last)
	}
}

func TestCeiling(t *testing.T) {
	if got := Ceiling(nil, 16.6); got != 16.6 {
		t.Errorf("Ceiling(nil) = %v, want floor", got)
	}
	if got := Ceiling([]float64{3, 40, 7}, 16.6); got != 40 {
		t.Errorf("Ceiling = %v, want 40", got)
	}
}
