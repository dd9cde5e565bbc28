package heatmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	counts := [][]int{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	labels := []string{"^", "a", "b"}

	var buf bytes.Buffer
	if err := New().Render(&buf, counts, labels); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	svg := buf.String()
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("output does not start with an svg element: %.40q", svg)
	}
	for _, bigram := range []string{"^a", "ab", "b^"} {
		if !strings.Contains(svg, ">"+bigram+"<") {
			t.Errorf("output is missing bigram label %q", bigram)
		}
	}
	// 3x3 cells at the default cell size.
	if !strings.Contains(svg, `width="144"`) {
		t.Error("output is missing the expected canvas width")
	}
}

func TestRenderOptions(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithCellSize(10), WithFontSize(4))
	if err := r.Render(&buf, [][]int{{2}}, []string{"^"}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `width="10"`) {
		t.Error("cell size option was not applied")
	}
}

func TestRenderAllZeroCounts(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Render(&buf, [][]int{{0, 0}, {0, 0}}, []string{"^", "a"}); err != nil {
		t.Fatalf("Render() with zero counts error = %v", err)
	}
	if !strings.Contains(buf.String(), `fill-opacity="0.000"`) {
		t.Error("zero counts should render fully transparent cells")
	}
}

func TestRenderShapeMismatch(t *testing.T) {
	testCases := []struct {
		name   string
		counts [][]int
		labels []string
	}{
		{name: "Too few rows", counts: [][]int{{0, 0}}, labels: []string{"^", "a"}},
		{name: "Ragged row", counts: [][]int{{0, 0}, {0}}, labels: []string{"^", "a"}},
		{name: "Label count off", counts: [][]int{{0}}, labels: []string{"^", "a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := New().Render(&bytes.Buffer{}, tc.counts, tc.labels)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("Render() error = %v, want ErrShapeMismatch", err)
			}
		})
	}
}
