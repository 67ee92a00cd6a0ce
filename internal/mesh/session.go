package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/togetoge/pkg/math"
)

// ErrReleased is returned by edits attempted after a session was released.
var ErrReleased = errors.New("mesh session already released")

// RefreshFunc runs when a session is released, after the mesh refreshed.
type RefreshFunc func(m *Mesh) error

// Session is exclusive edit access to a mesh for the duration of one pass.
// Release must always be called; it refreshes the mesh and runs the hooks
// whether or not the pass succeeded, so partial edits stay observable.
type Session struct {
	mesh     *Mesh
	hooks    []RefreshFunc
	released bool
}

// Acquire opens a session on m.
func Acquire(m *Mesh, hooks ...RefreshFunc) *Session {
	return &Session{mesh: m, hooks: hooks}
}

// Mesh returns the underlying mesh.
func (s *Session) Mesh() *Mesh {
	return s.mesh
}

// OnRelease registers another refresh hook.
func (s *Session) OnRelease(fn RefreshFunc) {
	s.hooks = append(s.hooks, fn)
}

// Release refreshes the mesh and runs every hook. All hooks run even when
// one fails; their errors are joined. Calling Release again is a no-op.
func (s *Session) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	s.mesh.Refresh()

	var errs []error
	for _, fn := range s.hooks {
		if err := fn(s.mesh); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Vertices returns every vertex handle.
func (s *Session) Vertices() []VertexID {
	return s.mesh.Vertices()
}

// Position returns the position of v.
func (s *Session) Position(v VertexID) math.Vec3 {
	return s.mesh.Position(v)
}

// Move translates v by delta.
func (s *Session) Move(v VertexID, delta math.Vec3) error {
	if s.released {
		return ErrReleased
	}
	return s.mesh.Move(v, delta)
}

// Links returns the vertices linked to v.
func (s *Session) Links(v VertexID) []VertexID {
	return s.mesh.Links(v)
}

// EdgeBetween returns the edge joining a and b.
func (s *Session) EdgeBetween(a, b VertexID) (EdgeID, bool) {
	return s.mesh.EdgeBetween(a, b)
}

// SubdivideEdges splits each edge into cuts+1 segments.
func (s *Session) SubdivideEdges(edges []EdgeID, cuts int) error {
	if s.released {
		return ErrReleased
	}
	_, err := s.mesh.SubdivideEdges(edges, cuts)
	return err
}

// ConnectTriangle creates the triangle a, b, c through the selection:
// deselect everything, select the three vertices, connect them.
func (s *Session) ConnectTriangle(a, b, c VertexID) (FaceID, error) {
	if s.released {
		return NoFace, ErrReleased
	}
	m := s.mesh
	m.DeselectAll()
	for _, v := range []VertexID{a, b, c} {
		if err := m.Select(v); err != nil {
			return NoFace, err
		}
	}
	if sel := m.Selected(); len(sel) != 3 {
		return NoFace, fmt.Errorf("triangle needs 3 distinct vertices, got %v", sel)
	}
	return m.ConnectSelected()
}
