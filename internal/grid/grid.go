// Package grid indexes a planar quad mesh section as rows and columns and
// runs the zigzag passes over it: subdivision, alternating-diagonal
// triangulation and checkerboard spike displacement.
//
// Rows share an exact Y coordinate and are ordered by Y; vertices within a
// row are ordered by Z. A VertexGrid is a snapshot and must be rebuilt
// whenever the mesh changes shape.
package grid

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/togetoge/internal/mesh"
	"github.com/Faultbox/togetoge/pkg/math"
)

// Grid errors.
var (
	ErrConnectivity          = errors.New("rows are not connected")
	ErrInputShape            = errors.New("grid is not rectangular")
	ErrInsufficientNeighbors = errors.New("vertex needs two linked neighbors")
	ErrInvalidCuts           = errors.New("cuts must be positive")
)

// PositionReader reads vertex positions.
type PositionReader interface {
	Position(v mesh.VertexID) math.Vec3
}

// Host is the editing environment the passes read from and write to.
// *mesh.Session implements it.
type Host interface {
	PositionReader
	Vertices() []mesh.VertexID
	Move(v mesh.VertexID, delta math.Vec3) error
	Links(v mesh.VertexID) []mesh.VertexID
	EdgeBetween(a, b mesh.VertexID) (mesh.EdgeID, bool)
	SubdivideEdges(edges []mesh.EdgeID, cuts int) error
	ConnectTriangle(a, b, c mesh.VertexID) (mesh.FaceID, error)
}

// Row is one grid row: the shared Y coordinate and the vertices ordered by Z.
type Row struct {
	Key     float64
	Columns []mesh.VertexID
}

// VertexGrid is an ordered row/column index over a vertex set.
type VertexGrid struct {
	rows []Row
}

// Cell holds the four corners of grid cell (row, col).
type Cell struct {
	BottomLeft  mesh.VertexID // (row, col)
	TopLeft     mesh.VertexID // (row, col+1)
	BottomRight mesh.VertexID // (row+1, col)
	TopRight    mesh.VertexID // (row+1, col+1)
}

// Build groups vertices by exact Y into rows, orders the rows by Y and each
// row by Z. Equal Z values keep their input order. Build accepts ragged
// input; consumers that need a rectangle call Rectangular.
func Build(src PositionReader, vertices []mesh.VertexID) *VertexGrid {
	buckets := make(map[float64][]mesh.VertexID)
	var keys []float64
	for _, v := range vertices {
		y := src.Position(v).Y
		if _, ok := buckets[y]; !ok {
			keys = append(keys, y)
		}
		buckets[y] = append(buckets[y], v)
	}
	sort.Float64s(keys)

	g := &VertexGrid{rows: make([]Row, len(keys))}
	for i, y := range keys {
		cols := buckets[y]
		sort.SliceStable(cols, func(a, b int) bool {
			return src.Position(cols[a]).Z < src.Position(cols[b]).Z
		})
		g.rows[i] = Row{Key: y, Columns: cols}
	}
	return g
}

// SizeY returns the number of rows.
func (g *VertexGrid) SizeY() int {
	return len(g.rows)
}

// SizeZ returns the column count of the first row, or 0 for an empty grid.
func (g *VertexGrid) SizeZ() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0].Columns)
}

// At returns the vertex at row y, column z.
func (g *VertexGrid) At(y, z int) mesh.VertexID {
	return g.rows[y].Columns[z]
}

// Row returns a copy of row y.
func (g *VertexGrid) Row(y int) Row {
	r := g.rows[y]
	return Row{Key: r.Key, Columns: append([]mesh.VertexID(nil), r.Columns...)}
}

// RowNeighbors returns the vertices directly below and above (y, z) in the
// same column. Boundary rows have no pair and report ok == false.
func (g *VertexGrid) RowNeighbors(y, z int) (prev, next mesh.VertexID, ok bool) {
	if y <= 0 || y >= len(g.rows)-1 {
		return 0, 0, false
	}
	return g.rows[y-1].Columns[z], g.rows[y+1].Columns[z], true
}

// CellCorners returns the corners of cell (row, col), valid for
// 0 <= row < SizeY()-1 and 0 <= col < SizeZ()-1.
func (g *VertexGrid) CellCorners(row, col int) Cell {
	return Cell{
		BottomLeft:  g.rows[row].Columns[col],
		TopLeft:     g.rows[row].Columns[col+1],
		BottomRight: g.rows[row+1].Columns[col],
		TopRight:    g.rows[row+1].Columns[col+1],
	}
}

// Rectangular reports ErrInputShape if any row's column count differs from
// the first row's.
func (g *VertexGrid) Rectangular() error {
	want := g.SizeZ()
	for i, r := range g.rows {
		if len(r.Columns) != want {
			return fmt.Errorf("%w: row %d (y=%g) has %d columns, row 0 has %d",
				ErrInputShape, i, r.Key, len(r.Columns), want)
		}
	}
	return nil
}

// Equal reports whether both grids have the same rows in the same order.
func (g *VertexGrid) Equal(other *VertexGrid) bool {
	if len(g.rows) != len(other.rows) {
		return false
	}
	for i, r := range g.rows {
		o := other.rows[i]
		if r.Key != o.Key || len(r.Columns) != len(o.Columns) {
			return false
		}
		for j := range r.Columns {
			if r.Columns[j] != o.Columns[j] {
				return false
			}
		}
	}
	return true
}

// Len returns the total number of indexed vertices.
func (g *VertexGrid) Len() int {
	n := 0
	for _, r := range g.rows {
		n += len(r.Columns)
	}
	return n
}
