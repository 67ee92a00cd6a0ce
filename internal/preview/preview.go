// Package preview renders cross-section plots of a processed grid.
package preview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Faultbox/togetoge/internal/grid"
)

// ErrEmptyGrid is returned when there is nothing to plot.
var ErrEmptyGrid = errors.New("grid has no vertices")

// Plot size.
const (
	width  = 10 * vg.Inch
	height = 4 * vg.Inch
)

// Profile plots depth (X) against the row axis (Y) for each requested grid
// column and saves it to path. The format follows the extension (png, svg,
// pdf, ...). No columns means column 0.
func Profile(src grid.PositionReader, g *grid.VertexGrid, path string, columns ...int) error {
	if g == nil || g.SizeY() == 0 || g.SizeZ() == 0 {
		return ErrEmptyGrid
	}
	if len(columns) == 0 {
		columns = []int{0}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Profile (%d rows x %d columns)", g.SizeY(), g.SizeZ())
	p.X.Label.Text = "Y (row axis)"
	p.Y.Label.Text = "X (depth)"
	p.Add(plotter.NewGrid())

	for i, z := range columns {
		if z < 0 || z >= g.SizeZ() {
			return fmt.Errorf("column %d out of range [0, %d)", z, g.SizeZ())
		}

		pts := make(plotter.XYs, g.SizeY())
		for y := range g.SizeY() {
			pos := src.Position(g.At(y, z))
			pts[y] = plotter.XY{X: pos.Y, Y: pos.X}
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		points.Color = plotutil.Color(i)
		points.Radius = vg.Points(1.5)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("z=%g", src.Position(g.At(0, z)).Z), line, points)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save profile plot: %w", err)
	}
	return nil
}

// Extent returns the depth range covered by the grid's vertices.
func Extent(src grid.PositionReader, g *grid.VertexGrid) (lo, hi float64) {
	first := true
	for y := range g.SizeY() {
		row := g.Row(y)
		for _, v := range row.Columns {
			x := src.Position(v).X
			if first {
				lo, hi, first = x, x, false
				continue
			}
			lo, hi = min(lo, x), max(hi, x)
		}
	}
	return lo, hi
}
