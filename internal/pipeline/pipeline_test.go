package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/togetoge/internal/grid"
	"github.com/Faultbox/togetoge/internal/mesh"
	"github.com/Faultbox/togetoge/pkg/math"
)

func TestRun_SpikedSurface(t *testing.T) {
	m, err := mesh.NewRibbon(4, 4, 1)
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	refreshed := 0
	res, err := Run(m, Options{Cuts: 3, Rate: -0.5, Spike: true}, zap.New(core),
		func(got *mesh.Mesh) error {
			refreshed++
			assert.Equal(t, 72, got.TriangleCount())
			return nil
		})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 13, res.Rows)
	assert.Equal(t, 4, res.Columns)
	assert.Equal(t, 72, res.Triangles)
	assert.Equal(t, 22, res.Moved)
	assert.InDelta(t, 0.25, res.MeanDisplacement, 1e-12)
	assert.InDelta(t, 0.25, res.MaxDisplacement, 1e-12)
	assert.NotEmpty(t, res.RunID)
	require.NotNil(t, res.Grid)

	assert.InDelta(t, -0.25, m.Bounds().Min.X, 1e-12)

	entries := logs.FilterMessage("pass complete").All()
	require.Len(t, entries, 1)
	assert.Equal(t, res.RunID, entries[0].ContextMap()["run_id"])
}

func TestRun_ZigzagOnly(t *testing.T) {
	m, err := mesh.NewRibbon(3, 2, 1)
	require.NoError(t, err)

	res, err := Run(m, Options{Cuts: 1, Rate: 2}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 8, res.Triangles)
	assert.Zero(t, res.Moved)
	assert.Equal(t, 0.0, m.Bounds().Min.X)
	assert.Equal(t, 0.0, m.Bounds().Max.X)
}

func TestRun_ColumnAxis(t *testing.T) {
	m, err := mesh.NewRibbon(4, 2, 1)
	require.NoError(t, err)

	res, err := Run(m, Options{Cuts: 3, Rate: -0.5, Axis: AxisColumns, Spike: true}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 5, res.Columns)
	assert.Equal(t, 2*3*4, res.Triangles)
	// Interior rows 1 and 2, matching parity columns.
	assert.Equal(t, 5, res.Moved)
}

func TestRun_RefreshOnFailure(t *testing.T) {
	m := mesh.New()
	m.AddVertex(math.Vec3{Y: 0, Z: 0})
	m.AddVertex(math.Vec3{Y: 0, Z: 1})
	m.AddVertex(math.Vec3{Y: 1, Z: 0})
	m.AddVertex(math.Vec3{Y: 1, Z: 1})
	_, err := m.AddEdge(0, 1)
	require.NoError(t, err)

	refreshed := false
	hookErr := errors.New("disk full")
	res, err := Run(m, Options{Cuts: 2, Spike: true}, zap.NewNop(), func(*mesh.Mesh) error {
		refreshed = true
		return hookErr
	})

	require.Error(t, err)
	assert.True(t, refreshed, "refresh runs on the error path")
	assert.ErrorIs(t, err, grid.ErrConnectivity)
	assert.ErrorIs(t, err, hookErr)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageSubdivide, se.Stage)

	require.NotNil(t, res)
	assert.Equal(t, 2, res.Rows, "result keeps the coarse grid")
	assert.Equal(t, 1, m.Revision())
}

func TestStagesNeedGrid(t *testing.T) {
	m, err := mesh.NewRibbon(2, 2, 1)
	require.NoError(t, err)
	sess := mesh.Acquire(m)
	defer sess.Release()

	p := New(sess, Options{Cuts: 1}, zap.NewNop())
	for _, stage := range []func() error{p.Subdivide, p.Triangulate, p.Spike} {
		assert.ErrorIs(t, stage(), ErrNoGrid)
	}
	assert.Nil(t, p.Grid())

	require.NoError(t, p.Build())
	assert.Equal(t, 2, p.Grid().SizeY())
}

func TestRunVertices(t *testing.T) {
	m, err := mesh.NewRibbon(3, 3, 1)
	require.NoError(t, err)

	res, err := RunVertices(m, []mesh.VertexID{4}, 1, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moved)
	assert.InDelta(t, 1.4142135623730951, m.Position(4).X, 1e-12)

	// Vertex 1 links to 0 and 2 first, both on the y=0 row.
	res, err = RunVertices(m, []mesh.VertexID{8, 1}, 1, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, math.ErrDivideByZero)
	assert.Equal(t, 1, res.Moved)
}

func TestRecord_AccumulatesAcrossBatches(t *testing.T) {
	m, err := mesh.NewRibbon(2, 2, 1)
	require.NoError(t, err)
	sess := mesh.Acquire(m)
	t.Cleanup(func() { _ = sess.Release() })

	p := New(sess, Options{}, zap.NewNop())
	p.record([]grid.Move{
		{Delta: math.Vec3{X: 3}},
		{Delta: math.Vec3{X: 1}},
	})
	p.record([]grid.Move{{Delta: math.Vec3{X: 2}}})
	p.record(nil)

	res := p.Result()
	assert.Equal(t, 3, res.Moved)
	assert.InDelta(t, 2.0, res.MeanDisplacement, 1e-12)
	assert.Equal(t, 3.0, res.MaxDisplacement)
}

func TestParseAxis(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Axis
	}{
		{"rows", AxisRows},
		{"", AxisRows},
		{"columns", AxisColumns},
	} {
		got, err := ParseAxis(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		if tt.in != "" {
			assert.Equal(t, tt.in, got.String())
		}
	}

	_, err := ParseAxis("diagonal")
	assert.Error(t, err)
}
