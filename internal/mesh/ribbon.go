package mesh

import (
	"fmt"

	"github.com/Faultbox/togetoge/pkg/math"
)

// NewRibbon builds a planar rows x cols grid of quads in the X=0 plane.
// Row r lies at Y = r*spacing and column c at Z = c*spacing.
func NewRibbon(rows, cols int, spacing float64) (*Mesh, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("ribbon needs at least 1x1 vertices, got %dx%d", rows, cols)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("ribbon spacing must be positive, got %g", spacing)
	}

	m := New()
	ids := make([][]VertexID, rows)
	for r := range rows {
		ids[r] = make([]VertexID, cols)
		for c := range cols {
			ids[r][c] = m.AddVertex(math.Vec3{X: 0, Y: float64(r) * spacing, Z: float64(c) * spacing})
		}
	}

	for r := range rows {
		for c := range cols {
			if c+1 < cols {
				if _, err := m.AddEdge(ids[r][c], ids[r][c+1]); err != nil {
					return nil, err
				}
			}
			if r+1 < rows {
				if _, err := m.AddEdge(ids[r][c], ids[r+1][c]); err != nil {
					return nil, err
				}
			}
		}
	}

	for r := 0; r+1 < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			if _, err := m.AddFace(ids[r][c], ids[r][c+1], ids[r+1][c+1], ids[r+1][c]); err != nil {
				return nil, err
			}
		}
	}

	m.Refresh()
	return m, nil
}
