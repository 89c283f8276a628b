package widgets

import (
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/perf-pulse/display/color"
	"gitlab.com/tinyland/lab/perf-pulse/graph"
)

func TestRenderGraph_Diagonal(t *testing.T) {
	color.ForceDisable()

	got := RenderGraph(GraphConfig{
		History: []float64{0, 60},
		Spec:    graph.Spec{Floor: 60},
		Width:   2,
		Height:  1,
	})
	// The rising diagonal crosses both cells bottom-left to top-right.
	if got != "⡠⠊" {
		t.Errorf("RenderGraph() = %q, want %q", got, "⡠⠊")
	}
}

func TestRenderGraph_GridlinesOnly(t *testing.T) {
	color.ForceDisable()

	got := RenderGraph(GraphConfig{Spec: graph.Spec{Floor: 60}, Width: 3, Height: 4})
	want := "───\n───\n───\n   "
	if got != want {
		t.Errorf("RenderGraph() =\n%s\nwant\n%s", got, want)
	}

	hidden := RenderGraph(GraphConfig{Spec: graph.Spec{Floor: 60}, Width: 3, Height: 2, HideGridlines: true})
	if hidden != "   \n   " {
		t.Errorf("hidden gridlines = %q", hidden)
	}
}

func TestRenderGraph_Dimensions(t *testing.T) {
	color.ForceDisable()

	history := make([]float64, 500)
	for i := range history {
		history[i] = float64(i % 60)
	}
	got := RenderGraph(GraphConfig{History: history, Spec: graph.Spec{Floor: 60}, Width: 30, Height: 5})

	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 30 {
			t.Errorf("line %d has %d cells, want 30", i, n)
		}
	}
}

func TestRenderGraph_ZeroSize(t *testing.T) {
	if got := RenderGraph(GraphConfig{History: []float64{1, 2}, Width: 0, Height: 3}); got != "" {
		t.Errorf("zero width graph = %q, want empty", got)
	}
}
