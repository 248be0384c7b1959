package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/isinglab/internal/lattice"
)

const (
	maxGridRows = 24
	maxGridCols = 72
)

// SpinGrid renders the lattice as colored text, one cell per spin.
// Lattices larger than the viewport are sampled at a uniform stride.
func SpinGrid(lat *lattice.Lattice) string {
	rows, cols := lat.Rows(), lat.Cols()
	rowStep, colStep := 1, 1
	if rows > maxGridRows {
		rowStep = (rows + maxGridRows - 1) / maxGridRows
	}
	if cols > maxGridCols {
		colStep = (cols + maxGridCols - 1) / maxGridCols
	}

	var b strings.Builder
	for i := 0; i < rows; i += rowStep {
		var up, down strings.Builder
		flush := func() {
			if up.Len() > 0 {
				b.WriteString(spinUpStyle.Render(up.String()))
				up.Reset()
			}
			if down.Len() > 0 {
				b.WriteString(spinDownStyle.Render(down.String()))
				down.Reset()
			}
		}
		for j := 0; j < cols; j += colStep {
			if lat.At(i, j) > 0 {
				if down.Len() > 0 {
					flush()
				}
				up.WriteString("█")
			} else {
				if up.Len() > 0 {
					flush()
				}
				down.WriteString("·")
			}
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

// HistoryPlot charts a recent window of an observable series.
func HistoryPlot(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}
