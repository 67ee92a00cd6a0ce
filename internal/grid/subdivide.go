package grid

import (
	"fmt"
	"sort"

	"github.com/Faultbox/togetoge/internal/mesh"
)

// ringEdges is the set of edges joining one pair of adjacent rows.
type ringEdges struct {
	key   float64
	edges []mesh.EdgeID
}

// Subdivide inserts cuts new rows between every pair of adjacent rows and
// returns the grid rebuilt at the finer resolution.
//
// Each row pair is located through the edge joining the rows' first
// vertices, found by searching the first vertex's link set. The parallel
// edges in the remaining columns are split along with it so every new row
// spans the full width. An R x C grid becomes (R + (R-1)*cuts) x C.
//
// It fails with ErrInvalidCuts when cuts < 1, with ErrInputShape when the
// coarse grid is ragged (the parallel edges need a partner in every column),
// and with ErrConnectivity when a row pair has no joining edge in some column.
func Subdivide(h Host, g *VertexGrid, cuts int) (*VertexGrid, error) {
	if cuts < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCuts, cuts)
	}
	if err := g.Rectangular(); err != nil {
		return nil, err
	}

	rings := make([]ringEdges, 0, g.SizeY())
	for y := 0; y+1 < g.SizeY(); y++ {
		lower, upper := g.rows[y], g.rows[y+1]
		first, err := connectingEdge(h, lower.Columns[0], upper.Columns[0])
		if err != nil {
			return nil, fmt.Errorf("rows %d-%d (y=%g, y=%g): %w", y, y+1, lower.Key, upper.Key, err)
		}

		ring := ringEdges{key: lower.Key, edges: []mesh.EdgeID{first}}
		for z := 1; z < len(lower.Columns); z++ {
			e, ok := h.EdgeBetween(lower.Columns[z], upper.Columns[z])
			if !ok {
				return nil, fmt.Errorf("%w: rows %d-%d have no edge in column %d", ErrConnectivity, y, y+1, z)
			}
			ring.edges = append(ring.edges, e)
		}
		rings = append(rings, ring)
	}

	if err := subdivideRings(h, rings, cuts); err != nil {
		return nil, err
	}
	return Build(h, h.Vertices()), nil
}

// SubdivideColumns inserts cuts new vertices into every in-row segment, so a
// row of C vertices grows to C + (C-1)*cuts. This is the ribbon mode: a strip
// of quads stacked along Y whose rows are single edges.
func SubdivideColumns(h Host, g *VertexGrid, cuts int) (*VertexGrid, error) {
	if cuts < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCuts, cuts)
	}

	rings := make([]ringEdges, 0, g.SizeY())
	for y, row := range g.rows {
		ring := ringEdges{key: row.Key}
		for z := 0; z+1 < len(row.Columns); z++ {
			e, err := connectingEdge(h, row.Columns[z], row.Columns[z+1])
			if err != nil {
				return nil, fmt.Errorf("row %d (y=%g) columns %d-%d: %w", y, row.Key, z, z+1, err)
			}
			ring.edges = append(ring.edges, e)
		}
		rings = append(rings, ring)
	}

	if err := subdivideRings(h, rings, cuts); err != nil {
		return nil, err
	}
	return Build(h, h.Vertices()), nil
}

// connectingEdge finds the edge from origin to other by walking origin's
// link set.
func connectingEdge(h Host, origin, other mesh.VertexID) (mesh.EdgeID, error) {
	for _, v := range h.Links(origin) {
		if v != other {
			continue
		}
		if e, ok := h.EdgeBetween(origin, other); ok {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: no edge from vertex %d to vertex %d", ErrConnectivity, origin, other)
}

// subdivideRings requests the splits in ascending row order.
func subdivideRings(h Host, rings []ringEdges, cuts int) error {
	sort.SliceStable(rings, func(i, j int) bool {
		return rings[i].key < rings[j].key
	})
	for _, r := range rings {
		if len(r.edges) == 0 {
			continue
		}
		if err := h.SubdivideEdges(r.edges, cuts); err != nil {
			return fmt.Errorf("subdividing edges at y=%g: %w", r.key, err)
		}
	}
	return nil
}
