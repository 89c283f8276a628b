// Package graph maps rolling metric histories onto rectangle coordinates
// for line-graph rendering, together with the fixed reference gridlines.
// Everything here is a pure function of its inputs.
package graph

import "math"

// Rect is a drawing region with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Point is a projected sample position inside a Rect.
type Point struct {
	X, Y float64
}

// MinDrawablePoints is the number of samples needed to draw a line.
const MinDrawablePoints = 2

// Ceiling returns the scale ceiling for history: the larger of floor and
// the history maximum. An empty history yields floor.
func Ceiling(history []float64, floor float64) float64 {
	ceiling := floor
	for _, v := range history {
		if v > ceiling {
			ceiling = v
		}
	}
	return ceiling
}

// Project maps history onto rect. Samples are spread evenly from the left
// to the right edge and normalized against Ceiling(history, floor), with
// higher values drawn toward the top. Histories shorter than
// MinDrawablePoints, and histories whose ceiling is not a positive finite
// number, project to an empty slice.
func Project(history []float64, rect Rect, floor float64) []Point {
	n := len(history)
	if n < MinDrawablePoints {
		return []Point{}
	}

	ceiling := Ceiling(history, floor)
	if ceiling <= 0 || math.IsNaN(ceiling) || math.IsInf(ceiling, 0) {
		return []Point{}
	}

	step := rect.W / float64(n-1)
	points := make([]Point, n)
	for i, v := range history {
		normalized := clamp01(v / ceiling)
		points[i] = Point{
			X: rect.X + step*float64(i),
			Y: rect.Y + rect.H*(1-normalized),
		}
	}
	return points
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
