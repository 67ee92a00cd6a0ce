package mesh

import (
	"fmt"

	"github.com/Faultbox/togetoge/pkg/formats"
)

// FromOBJ builds a mesh from parsed OBJ geometry. Faces contribute their
// boundary edges; line records become free edges.
func FromOBJ(obj *formats.OBJ) (*Mesh, error) {
	m := New()
	for _, v := range obj.Vertices {
		m.AddVertex(v)
	}
	for i, f := range obj.Faces {
		loop := make([]VertexID, len(f))
		for j, idx := range f {
			loop[j] = VertexID(idx)
		}
		if _, err := m.AddFace(loop...); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
	}
	for i, l := range obj.Lines {
		if _, err := m.AddEdge(VertexID(l[0]), VertexID(l[1])); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
	}
	m.Refresh()
	return m, nil
}

// ToOBJ exports the live geometry. Edges not bordering any face are written
// as line records.
func (m *Mesh) ToOBJ() *formats.OBJ {
	obj := &formats.OBJ{Vertices: append(m.positions[:0:0], m.positions...)}

	onFace := make(map[edgeKey]bool)
	for _, f := range m.Faces() {
		loop := make([]int, len(f.Loop))
		for i, v := range f.Loop {
			loop[i] = int(v)
			onFace[keyOf(v, f.Loop[(i+1)%len(f.Loop)])] = true
		}
		obj.Faces = append(obj.Faces, loop)
	}
	for _, e := range m.Edges() {
		if !onFace[keyOf(e.A, e.B)] {
			obj.Lines = append(obj.Lines, [2]int{int(e.A), int(e.B)})
		}
	}
	return obj
}
