package grid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/togetoge/internal/mesh"
)

// recordingHost wraps a session and records the edit requests it receives.
type recordingHost struct {
	*mesh.Session
	triangles    []Triangle
	subdivisions [][]mesh.EdgeID
	subdivideY   []float64 // lower Y of each request's first edge
}

func (r *recordingHost) ConnectTriangle(a, b, c mesh.VertexID) (mesh.FaceID, error) {
	r.triangles = append(r.triangles, Triangle{a, b, c})
	return r.Session.ConnectTriangle(a, b, c)
}

func (r *recordingHost) SubdivideEdges(edges []mesh.EdgeID, cuts int) error {
	r.subdivisions = append(r.subdivisions, append([]mesh.EdgeID(nil), edges...))
	if len(edges) > 0 {
		if e, err := r.Mesh().Edge(edges[0]); err == nil {
			m := r.Mesh()
			r.subdivideY = append(r.subdivideY, min(m.Position(e.A).Y, m.Position(e.B).Y))
		}
	}
	return r.Session.SubdivideEdges(edges, cuts)
}

func newRibbonHost(t *testing.T, rows, cols int) (*mesh.Mesh, *recordingHost, *VertexGrid) {
	t.Helper()
	m, err := mesh.NewRibbon(rows, cols, 1)
	require.NoError(t, err)
	s := mesh.Acquire(m)
	t.Cleanup(func() { _ = s.Release() })
	h := &recordingHost{Session: s}
	return m, h, Build(h, h.Vertices())
}

func positions(m *mesh.Mesh) map[mesh.VertexID][3]float64 {
	out := make(map[mesh.VertexID][3]float64, m.VertexCount())
	for _, v := range m.Vertices() {
		p := m.Position(v)
		out[v] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}
