package diag

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// History accumulates a scalar time series over the run and renders it as a
// terminal plot, for watching conservation drift or divergence growth without
// a display.
type History struct {
	Name   string
	Values []float64
}

func NewHistory(name string) *History {
	return &History{Name: name}
}

func (h *History) Append(v float64) {
	h.Values = append(h.Values, v)
}

// Render draws the accumulated series; empty histories render a placeholder
// line rather than panicking inside the plotter.
func (h *History) Render(height, width int) string {
	if len(h.Values) < 2 {
		return fmt.Sprintf("%s: (no history)", h.Name)
	}
	return asciigraph.Plot(h.Values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(h.Name),
	)
}
