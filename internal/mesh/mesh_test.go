package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/togetoge/pkg/math"
)

func TestNewRibbon(t *testing.T) {
	m, err := NewRibbon(4, 3, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 12, m.VertexCount())
	assert.Equal(t, 4*2+3*3, m.EdgeCount())
	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, math.Vec3{X: 0, Y: 1.5, Z: 1}, m.Position(11))
	assert.Equal(t, Bounds{Max: math.Vec3{X: 0, Y: 1.5, Z: 1}}, m.Bounds())
	assert.Equal(t, 1, m.Revision())
}

func TestNewRibbon_Invalid(t *testing.T) {
	_, err := NewRibbon(0, 3, 1)
	assert.Error(t, err)
	_, err = NewRibbon(2, 2, 0)
	assert.Error(t, err)
}

func TestAddEdge_Dedup(t *testing.T) {
	m := New()
	a := m.AddVertex(math.Vec3{})
	b := m.AddVertex(math.Vec3{Y: 1})

	e1, err := m.AddEdge(a, b)
	require.NoError(t, err)
	e2, err := m.AddEdge(b, a)
	require.NoError(t, err)

	assert.Equal(t, e1, e2)
	assert.Equal(t, []VertexID{b}, m.Links(a))

	_, err = m.AddEdge(a, 7)
	assert.True(t, errors.Is(err, ErrUnknownVertex))
	_, err = m.AddEdge(a, a)
	assert.Error(t, err)
}

func TestSubdivideEdges(t *testing.T) {
	m, err := NewRibbon(2, 2, 1)
	require.NoError(t, err)

	// Rows: 0,1 at Y=0; 2,3 at Y=1.
	left, ok := m.EdgeBetween(2, 0)
	require.True(t, ok)
	right, ok := m.EdgeBetween(1, 3)
	require.True(t, ok)

	created, err := m.SubdivideEdges([]EdgeID{left, right}, 3)
	require.NoError(t, err)
	require.Len(t, created, 6)

	for k := range 3 {
		l := m.Position(created[k])
		r := m.Position(created[3+k])
		assert.Equal(t, l.Y, r.Y, "cut %d must share an exact Y", k)
		assert.Equal(t, float64(k+1)/4, l.Y)
		assert.Equal(t, 0.0, l.Z)
		assert.Equal(t, 1.0, r.Z)
	}

	_, ok = m.EdgeBetween(0, 2)
	assert.False(t, ok, "split edge must be gone")
	assert.Equal(t, []VertexID{1, created[0]}, m.Links(0))

	faces := m.Faces()
	require.Len(t, faces, 1)
	assert.Len(t, faces[0].Loop, 10)
	assert.Equal(t, 4+6, m.EdgeCount())
}

func TestSubdivideEdges_Errors(t *testing.T) {
	m, err := NewRibbon(2, 2, 1)
	require.NoError(t, err)

	_, err = m.SubdivideEdges([]EdgeID{0}, 0)
	assert.True(t, errors.Is(err, ErrInvalidCuts))

	_, err = m.SubdivideEdges([]EdgeID{42}, 1)
	assert.True(t, errors.Is(err, ErrUnknownEdge))
	assert.Equal(t, 4, m.VertexCount(), "failed request must not edit the mesh")
}

func TestConnectSelected(t *testing.T) {
	m, err := NewRibbon(2, 2, 1)
	require.NoError(t, err)

	require.NoError(t, m.Select(0))
	require.NoError(t, m.Select(3))
	f, err := m.ConnectSelected()
	require.NoError(t, err)
	assert.Equal(t, NoFace, f)
	_, ok := m.EdgeBetween(0, 3)
	assert.True(t, ok)

	m.DeselectAll()
	for _, v := range []VertexID{0, 1, 3} {
		require.NoError(t, m.Select(v))
	}
	_, err = m.ConnectSelected()
	require.NoError(t, err)

	assert.Equal(t, 1, m.FaceCount(), "quad replaced by the triangle")
	assert.Equal(t, 1, m.TriangleCount())

	m.DeselectAll()
	require.NoError(t, m.Select(2))
	_, err = m.ConnectSelected()
	assert.Error(t, err)
}

func TestOBJRoundTrip(t *testing.T) {
	m, err := NewRibbon(3, 2, 1)
	require.NoError(t, err)
	_, err = m.AddEdge(0, 5)
	require.NoError(t, err)

	obj := m.ToOBJ()
	assert.Len(t, obj.Vertices, 6)
	assert.Len(t, obj.Faces, 2)
	assert.Equal(t, [][2]int{{0, 5}}, obj.Lines)

	back, err := FromOBJ(obj)
	require.NoError(t, err)
	assert.Equal(t, m.VertexCount(), back.VertexCount())
	assert.Equal(t, m.EdgeCount(), back.EdgeCount())
	assert.Equal(t, m.FaceCount(), back.FaceCount())
}
