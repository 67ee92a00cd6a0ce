package grid

import (
	"fmt"

	"github.com/Faultbox/togetoge/internal/mesh"
)

// Triangle is three vertices passed to the host's connect operation.
type Triangle [3]mesh.VertexID

// Triangles returns the two triangles for cell (row, col). Cells with even
// row+col are split along BottomLeft-TopRight, odd ones along
// BottomRight-TopLeft, so neighboring cells always use opposite diagonals.
func (g *VertexGrid) Triangles(row, col int) [2]Triangle {
	c := g.CellCorners(row, col)
	if (row+col)%2 == 0 {
		return [2]Triangle{
			{c.BottomLeft, c.TopLeft, c.TopRight},
			{c.BottomRight, c.BottomLeft, c.TopRight},
		}
	}
	return [2]Triangle{
		{c.BottomRight, c.TopRight, c.TopLeft},
		{c.BottomRight, c.BottomLeft, c.TopLeft},
	}
}

// Triangulate replaces every grid cell with two triangles along the
// alternating diagonal and returns the number of triangles requested.
func Triangulate(h Host, g *VertexGrid) (int, error) {
	if err := g.Rectangular(); err != nil {
		return 0, err
	}

	n := 0
	for row := 0; row+1 < g.SizeY(); row++ {
		for col := 0; col+1 < g.SizeZ(); col++ {
			for _, tri := range g.Triangles(row, col) {
				if _, err := h.ConnectTriangle(tri[0], tri[1], tri[2]); err != nil {
					return n, fmt.Errorf("cell (%d, %d): %w", row, col, err)
				}
				n++
			}
		}
	}
	return n, nil
}
