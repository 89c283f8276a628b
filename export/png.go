package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"gitlab.com/tinyland/lab/perf-pulse/graph"
	"gitlab.com/tinyland/lab/perf-pulse/metrics"
)

// Default graph image size in pixels.
const (
	DefaultImageWidth  = 600
	DefaultImageHeight = 160
)

// supersample is the factor graphs are drawn at before being scaled down.
const supersample = 2

// RenderGraph draws history as a line graph with the reference gridlines
// on spec.Background().
func RenderGraph(history []float64, spec graph.Spec, width, height int) *image.NRGBA {
	if width <= 0 {
		width = DefaultImageWidth
	}
	if height <= 0 {
		height = DefaultImageHeight
	}
	w, h := width*supersample, height*supersample

	img := imaging.New(w, h, toRGBA(spec.Background()))
	rect := graph.Rect{X: 0, Y: 0, W: float64(w - 1), H: float64(h - 1)}

	for _, g := range graph.Gridlines(rect) {
		drawLine(img, g.From, g.To, toRGBA(g.Level.Color()), 1)
	}

	points := graph.Project(history, rect, spec.Floor)
	for i := 1; i < len(points); i++ {
		drawLine(img, points[i-1], points[i], toRGBA(spec.LineColor), supersample)
	}

	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// WriteGraphPNG renders the graph for kind and writes <kind>.png.
func (s *Store) WriteGraphPNG(kind metrics.Kind, history []float64, spec graph.Spec, width, height int) (string, error) {
	img := RenderGraph(history, spec, width, height)
	name := kind.String() + ".png"
	if err := s.writeAtomic(name, func(w io.Writer) error {
		return imaging.Encode(w, img, imaging.PNG)
	}); err != nil {
		return "", fmt.Errorf("export: graph %s: %w", kind, err)
	}
	return s.Path(name), nil
}

// toRGBA converts a lipgloss hex color. Unparseable colors become white.
func toRGBA(c lipgloss.Color) color.NRGBA {
	parsed, err := colorful.Hex(string(c))
	if err != nil {
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	r, g, b := parsed.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

// drawLine rasterizes a segment with the given stroke thickness in pixels.
func drawLine(img *image.NRGBA, from, to graph.Point, c color.NRGBA, thickness int) {
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	half := thickness / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(from.X + dx*t))
		y := int(math.Round(from.Y + dy*t))
		for oy := -half; oy <= half-(1-thickness%2); oy++ {
			img.SetNRGBA(x, y+oy, c)
		}
	}
}
