// Package mesh holds an editable polygon mesh: a vertex arena with stable
// handles, an adjacency index, edges, faces and a vertex selection. It plays
// the part of the host editing environment for the grid passes.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/togetoge/pkg/math"
)

// Mesh errors.
var (
	ErrUnknownVertex = errors.New("unknown vertex")
	ErrUnknownEdge   = errors.New("unknown edge")
	ErrInvalidCuts   = errors.New("cuts must be positive")
)

// VertexID is a stable handle to a vertex.
type VertexID int

// EdgeID is a stable handle to an edge.
type EdgeID int

// FaceID is a stable handle to a face.
type FaceID int

// NoFace is returned when a connect operation creates edges only.
const NoFace FaceID = -1

// Edge joins two vertices.
type Edge struct {
	A, B VertexID
	dead bool
}

// Other returns the endpoint opposite v.
func (e Edge) Other(v VertexID) VertexID {
	if e.A == v {
		return e.B
	}
	return e.A
}

// Face is a closed vertex loop.
type Face struct {
	Loop []VertexID
	dead bool
}

type edgeKey struct{ lo, hi VertexID }

func keyOf(a, b VertexID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Mesh is an editable mesh. Vertices are never removed; edges and faces are
// retired in place so handles stay valid.
type Mesh struct {
	positions []math.Vec3
	links     [][]VertexID // ordered by edge creation
	edges     []Edge
	faces     []Face
	edgeIndex map[edgeKey]EdgeID
	selection []VertexID
	bounds    Bounds
	revision  int
}

// New creates an empty mesh.
func New() *Mesh {
	return &Mesh{edgeIndex: make(map[edgeKey]EdgeID)}
}

// AddVertex appends a vertex and returns its handle.
func (m *Mesh) AddVertex(p math.Vec3) VertexID {
	m.positions = append(m.positions, p)
	m.links = append(m.links, nil)
	return VertexID(len(m.positions) - 1)
}

// AddEdge joins a and b, returning the existing edge if they are already linked.
func (m *Mesh) AddEdge(a, b VertexID) (EdgeID, error) {
	if !m.valid(a) || !m.valid(b) {
		return 0, fmt.Errorf("%w: edge %d-%d", ErrUnknownVertex, a, b)
	}
	if a == b {
		return 0, fmt.Errorf("edge from vertex %d to itself", a)
	}
	if id, ok := m.edgeIndex[keyOf(a, b)]; ok {
		return id, nil
	}
	id := EdgeID(len(m.edges))
	m.edges = append(m.edges, Edge{A: a, B: b})
	m.edgeIndex[keyOf(a, b)] = id
	m.links[a] = append(m.links[a], b)
	m.links[b] = append(m.links[b], a)
	return id, nil
}

// AddFace adds a polygon over loop, creating any missing boundary edges.
func (m *Mesh) AddFace(loop ...VertexID) (FaceID, error) {
	if len(loop) < 3 {
		return NoFace, fmt.Errorf("face needs at least 3 vertices, got %d", len(loop))
	}
	for i := range loop {
		if _, err := m.AddEdge(loop[i], loop[(i+1)%len(loop)]); err != nil {
			return NoFace, err
		}
	}
	m.faces = append(m.faces, Face{Loop: append([]VertexID(nil), loop...)})
	return FaceID(len(m.faces) - 1), nil
}

func (m *Mesh) valid(v VertexID) bool {
	return v >= 0 && int(v) < len(m.positions)
}

func (m *Mesh) removeEdge(id EdgeID) {
	e := &m.edges[id]
	e.dead = true
	delete(m.edgeIndex, keyOf(e.A, e.B))
	m.links[e.A] = without(m.links[e.A], e.B)
	m.links[e.B] = without(m.links[e.B], e.A)
}

func without(s []VertexID, v VertexID) []VertexID {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.positions)
}

// Vertices returns every vertex handle.
func (m *Mesh) Vertices() []VertexID {
	out := make([]VertexID, len(m.positions))
	for i := range out {
		out[i] = VertexID(i)
	}
	return out
}

// Position returns the position of v. Unknown handles yield the zero vector.
func (m *Mesh) Position(v VertexID) math.Vec3 {
	if !m.valid(v) {
		return math.Vec3{}
	}
	return m.positions[v]
}

// Move translates v by delta.
func (m *Mesh) Move(v VertexID, delta math.Vec3) error {
	if !m.valid(v) {
		return fmt.Errorf("%w: %d", ErrUnknownVertex, v)
	}
	m.positions[v] = m.positions[v].Add(delta)
	return nil
}

// Links returns the vertices directly connected to v, in edge creation order.
func (m *Mesh) Links(v VertexID) []VertexID {
	if !m.valid(v) {
		return nil
	}
	return append([]VertexID(nil), m.links[v]...)
}

// EdgeBetween returns the edge joining a and b.
func (m *Mesh) EdgeBetween(a, b VertexID) (EdgeID, bool) {
	id, ok := m.edgeIndex[keyOf(a, b)]
	return id, ok
}

// Edge returns the edge with the given handle.
func (m *Mesh) Edge(id EdgeID) (Edge, error) {
	if id < 0 || int(id) >= len(m.edges) || m.edges[id].dead {
		return Edge{}, fmt.Errorf("%w: %d", ErrUnknownEdge, id)
	}
	return m.edges[id], nil
}

// Edges returns all live edges.
func (m *Mesh) Edges() []Edge {
	var out []Edge
	for _, e := range m.edges {
		if !e.dead {
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount returns the number of live edges.
func (m *Mesh) EdgeCount() int {
	return len(m.edgeIndex)
}

// Faces returns copies of all live faces.
func (m *Mesh) Faces() []Face {
	var out []Face
	for _, f := range m.faces {
		if !f.dead {
			out = append(out, Face{Loop: append([]VertexID(nil), f.Loop...)})
		}
	}
	return out
}

// FaceCount returns the number of live faces.
func (m *Mesh) FaceCount() int {
	n := 0
	for _, f := range m.faces {
		if !f.dead {
			n++
		}
	}
	return n
}

// TriangleCount returns the number of live triangular faces.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.faces {
		if !f.dead && len(f.Loop) == 3 {
			n++
		}
	}
	return n
}

// SubdivideEdges splits every given edge into cuts+1 equal segments. New
// vertices are interpolated from the lower endpoint (ordered by Y, then Z,
// then X) so that edges sharing endpoint coordinates produce identical
// coordinates. Faces bordering a split edge gain the new vertices in order.
// It returns the created vertices.
func (m *Mesh) SubdivideEdges(edges []EdgeID, cuts int) ([]VertexID, error) {
	if cuts < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCuts, cuts)
	}
	for _, id := range edges {
		if _, err := m.Edge(id); err != nil {
			return nil, err
		}
	}

	var created []VertexID
	for _, id := range edges {
		e := m.edges[id]
		if e.dead {
			// listed twice
			continue
		}
		from, to := e.A, e.B
		if lowerFirst(m.positions[to], m.positions[from]) {
			from, to = to, from
		}

		p0, p1 := m.positions[from], m.positions[to]
		chain := make([]VertexID, 0, cuts)
		for k := 1; k <= cuts; k++ {
			t := float64(k) / float64(cuts+1)
			chain = append(chain, m.AddVertex(p0.Lerp(p1, t)))
		}

		m.removeEdge(id)
		prev := from
		for _, v := range chain {
			if _, err := m.AddEdge(prev, v); err != nil {
				return nil, err
			}
			prev = v
		}
		if _, err := m.AddEdge(prev, to); err != nil {
			return nil, err
		}

		m.spliceFaces(from, to, chain)
		created = append(created, chain...)
	}
	return created, nil
}

func lowerFirst(a, b math.Vec3) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.X < b.X
}

// spliceFaces inserts chain (ordered from -> to) into every face loop where
// from and to are consecutive.
func (m *Mesh) spliceFaces(from, to VertexID, chain []VertexID) {
	for fi := range m.faces {
		f := &m.faces[fi]
		if f.dead {
			continue
		}
		n := len(f.Loop)
		for i := 0; i < n; i++ {
			a, b := f.Loop[i], f.Loop[(i+1)%n]
			var ins []VertexID
			switch {
			case a == from && b == to:
				ins = chain
			case a == to && b == from:
				ins = reversed(chain)
			default:
				continue
			}
			loop := make([]VertexID, 0, n+len(ins))
			loop = append(loop, f.Loop[:i+1]...)
			loop = append(loop, ins...)
			loop = append(loop, f.Loop[i+1:]...)
			f.Loop = loop
			break
		}
	}
}

func reversed(s []VertexID) []VertexID {
	out := make([]VertexID, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Bounds returns the bounding box computed by the last Refresh.
func (m *Mesh) Bounds() Bounds {
	return m.bounds
}

// Revision counts Refresh calls.
func (m *Mesh) Revision() int {
	return m.revision
}

// Refresh recomputes derived state after a batch of edits.
func (m *Mesh) Refresh() {
	bounds := Bounds{}
	for i, p := range m.positions {
		if i == 0 {
			bounds = Bounds{Min: p, Max: p}
			continue
		}
		bounds.Min = bounds.Min.Min(p)
		bounds.Max = bounds.Max.Max(p)
	}
	m.bounds = bounds
	m.revision++
}
