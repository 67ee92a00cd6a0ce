package grid

import (
	"fmt"

	"github.com/Faultbox/togetoge/internal/mesh"
	"github.com/Faultbox/togetoge/pkg/math"
)

// Move records one displacement applied by a spike pass.
type Move struct {
	Y, Z   int // grid position; -1 for single-vertex moves
	Vertex mesh.VertexID
	Delta  math.Vec3
}

// Spike displaces every interior vertex whose row and column parity match.
// Each one moves perpendicular to the segment joining its neighbors in the
// rows directly below and above, by that segment's Y-Z length times rate.
// Column neighbors play no part. The applied moves are returned in order.
func Spike(h Host, g *VertexGrid, rate float64) ([]Move, error) {
	if err := g.Rectangular(); err != nil {
		return nil, err
	}

	var moves []Move
	for start := range 2 {
		for y := start; y < g.SizeY(); y += 2 {
			for z := start; z < g.SizeZ(); z += 2 {
				prev, next, ok := g.RowNeighbors(y, z)
				if !ok {
					continue
				}
				delta, err := math.Displacement(h.Position(prev), h.Position(next), rate)
				if err != nil {
					return moves, fmt.Errorf("vertex (%d, %d): %w", y, z, err)
				}
				v := g.At(y, z)
				if err := h.Move(v, delta); err != nil {
					return moves, fmt.Errorf("vertex (%d, %d): %w", y, z, err)
				}
				moves = append(moves, Move{Y: y, Z: z, Vertex: v, Delta: delta})
			}
		}
	}
	return moves, nil
}

// SpikeVertex displaces a single vertex using the first two vertices in its
// link set as the neighbor pair.
func SpikeVertex(h Host, v mesh.VertexID, rate float64) (Move, error) {
	links := h.Links(v)
	if len(links) < 2 {
		return Move{}, fmt.Errorf("%w: vertex %d has %d", ErrInsufficientNeighbors, v, len(links))
	}
	delta, err := math.Displacement(h.Position(links[0]), h.Position(links[1]), rate)
	if err != nil {
		return Move{}, fmt.Errorf("vertex %d: %w", v, err)
	}
	if err := h.Move(v, delta); err != nil {
		return Move{}, err
	}
	return Move{Y: -1, Z: -1, Vertex: v, Delta: delta}, nil
}

// SpikeVertices applies SpikeVertex to each vertex in order, stopping at the
// first failure.
func SpikeVertices(h Host, vs []mesh.VertexID, rate float64) ([]Move, error) {
	moves := make([]Move, 0, len(vs))
	for _, v := range vs {
		m, err := SpikeVertex(h, v, rate)
		if err != nil {
			return moves, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
