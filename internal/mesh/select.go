package mesh

import "fmt"

// DeselectAll clears the selection.
func (m *Mesh) DeselectAll() {
	m.selection = m.selection[:0]
}

// Select adds v to the selection. Selecting a vertex twice keeps its first
// position in the selection order.
func (m *Mesh) Select(v VertexID) error {
	if !m.valid(v) {
		return fmt.Errorf("%w: %d", ErrUnknownVertex, v)
	}
	for _, s := range m.selection {
		if s == v {
			return nil
		}
	}
	m.selection = append(m.selection, v)
	return nil
}

// Selected returns the selected vertices in selection order.
func (m *Mesh) Selected() []VertexID {
	return append([]VertexID(nil), m.selection...)
}

// ConnectSelected joins the selected vertices. Two vertices get an edge and
// NoFace is returned. Three or more become a face in selection order; any
// larger face that already contains every selected vertex is replaced by it.
func (m *Mesh) ConnectSelected() (FaceID, error) {
	sel := m.selection
	switch {
	case len(sel) < 2:
		return NoFace, fmt.Errorf("connect needs at least 2 selected vertices, got %d", len(sel))
	case len(sel) == 2:
		_, err := m.AddEdge(sel[0], sel[1])
		return NoFace, err
	}

	m.retireCovering(sel)
	return m.AddFace(sel...)
}

func (m *Mesh) retireCovering(vs []VertexID) {
	for fi := range m.faces {
		f := &m.faces[fi]
		if f.dead || len(f.Loop) <= len(vs) {
			continue
		}
		if containsAll(f.Loop, vs) {
			f.dead = true
		}
	}
}

func containsAll(loop, vs []VertexID) bool {
	for _, v := range vs {
		found := false
		for _, l := range loop {
			if l == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
