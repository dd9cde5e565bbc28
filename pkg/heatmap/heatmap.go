// Package heatmap renders a bigram count matrix and its label mapping as an
// SVG heatmap, one cell per transition with the bigram text and raw count
// printed inside it. It only reads the snapshots handed to it and keeps no
// reference to the model that produced them.
package heatmap

import (
	"errors"
	"fmt"
	"html/template"
	"io"
)

var (
	// ErrShapeMismatch indicates the count matrix is not square or does not
	// match the label mapping.
	ErrShapeMismatch = errors.New("heatmap: count matrix and labels must have matching square dimensions")
)

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" font-family="monospace">
<rect width="100%" height="100%" fill="white"/>
{{- range .Cells}}
<rect x="{{.X}}" y="{{.Y}}" width="{{$.CellSize}}" height="{{$.CellSize}}" fill="#1f6fb5" fill-opacity="{{.Opacity}}" stroke="#d0d7de"/>
<text x="{{.TextX}}" y="{{.BigramY}}" font-size="{{$.FontSize}}" text-anchor="middle" fill="#57606a">{{.Bigram}}</text>
<text x="{{.TextX}}" y="{{.CountY}}" font-size="{{$.FontSize}}" text-anchor="middle" fill="#24292f">{{.Count}}</text>
{{- end}}
</svg>
`

// Renderer holds the presentation settings and the parsed SVG template.
// A Renderer is stateless with respect to the data it draws and may be reused
// and shared freely.
type Renderer struct {
	cellSize int
	fontSize int
	tmpl     *template.Template
}

// Option is a function that configures a Renderer.
type Option func(*Renderer)

// WithCellSize sets the side length of one heatmap cell in pixels.
// Default: 48
func WithCellSize(px int) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.cellSize = px
		}
	}
}

// WithFontSize sets the font size for the in-cell labels in pixels.
// Default: 10
func WithFontSize(px int) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.fontSize = px
		}
	}
}

// New creates a Renderer with default settings, which can be overridden by
// providing one or more Option functions.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		cellSize: 48,
		fontSize: 10,
		tmpl:     template.Must(template.New("heatmap").Parse(svgTemplate)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type svgCell struct {
	X, Y    int
	TextX   int
	BigramY int
	CountY  int
	Opacity string
	Bigram  string
	Count   int
}

type svgData struct {
	Width    int
	Height   int
	CellSize int
	FontSize int
	Cells    []svgCell
}

// Render writes the SVG heatmap for the given count matrix and labels to w.
// Cell (i, j) is shaded by its count relative to the largest count in the
// matrix and annotated with the bigram text labels[i]+labels[j]. The counts
// slice must be square with one row per label.
func (r *Renderer) Render(w io.Writer, counts [][]int, labels []string) error {
	n := len(labels)
	if len(counts) != n {
		return ErrShapeMismatch
	}
	for _, row := range counts {
		if len(row) != n {
			return ErrShapeMismatch
		}
	}

	maxCount := 0
	for _, row := range counts {
		for _, c := range row {
			if c > maxCount {
				maxCount = c
			}
		}
	}

	data := svgData{
		Width:    n * r.cellSize,
		Height:   n * r.cellSize,
		CellSize: r.cellSize,
		FontSize: r.fontSize,
		Cells:    make([]svgCell, 0, n*n),
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			opacity := 0.0
			if maxCount > 0 {
				opacity = float64(counts[i][j]) / float64(maxCount)
			}
			x, y := j*r.cellSize, i*r.cellSize
			data.Cells = append(data.Cells, svgCell{
				X:       x,
				Y:       y,
				TextX:   x + r.cellSize/2,
				BigramY: y + r.cellSize/2 - r.fontSize/2,
				CountY:  y + r.cellSize/2 + r.fontSize,
				Opacity: fmt.Sprintf("%.3f", opacity),
				Bigram:  labels[i] + labels[j],
				Count:   counts[i][j],
			})
		}
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing heatmap template: %w", err)
	}
	return nil
}
