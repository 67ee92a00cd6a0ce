// Package pipeline sequences the grid passes over a mesh session:
// build, subdivide, triangulate and spike.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/togetoge/internal/grid"
	"github.com/Faultbox/togetoge/internal/mesh"
)

// Axis selects which edges the subdivide stage splits.
type Axis int

const (
	// AxisRows inserts new rows between adjacent rows.
	AxisRows Axis = iota
	// AxisColumns inserts new vertices into every row.
	AxisColumns
)

// String returns the config name of the axis.
func (a Axis) String() string {
	switch a {
	case AxisRows:
		return "rows"
	case AxisColumns:
		return "columns"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts a config name to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "rows", "":
		return AxisRows, nil
	case "columns":
		return AxisColumns, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Stage names.
const (
	StageBuild       = "build"
	StageSubdivide   = "subdivide"
	StageTriangulate = "triangulate"
	StageSpike       = "spike"
)

// ErrNoGrid is returned by stages that run before Build.
var ErrNoGrid = errors.New("grid not built")

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Options configures a pass.
type Options struct {
	Cuts  int
	Rate  float64
	Axis  Axis
	Spike bool // run the spike stage after triangulation
}

// Result summarises a pass.
type Result struct {
	RunID            string
	Rows, Columns    int
	Triangles        int
	Moved            int
	MeanDisplacement float64
	MaxDisplacement  float64
	Duration         time.Duration
	Grid             *grid.VertexGrid
}

// Pipeline runs the passes over one session. Each stage works on the grid
// left by the previous one.
type Pipeline struct {
	sess   *mesh.Session
	opts   Options
	log    *zap.Logger
	grid    *grid.VertexGrid
	result  Result
	lengths []float64 // displacement lengths of every applied move
}

// New creates a pipeline on an acquired session.
func New(sess *mesh.Session, opts Options, log *zap.Logger) *Pipeline {
	id := uuid.NewString()
	return &Pipeline{
		sess:   sess,
		opts:   opts,
		log:    log.With(zap.String("run_id", id)),
		result: Result{RunID: id},
	}
}

// Grid returns the current grid snapshot, or nil before Build.
func (p *Pipeline) Grid() *grid.VertexGrid {
	return p.grid
}

// Result returns the summary so far.
func (p *Pipeline) Result() Result {
	r := p.result
	r.Grid = p.grid
	if p.grid != nil {
		r.Rows, r.Columns = p.grid.SizeY(), p.grid.SizeZ()
	}
	return r
}

// Build indexes the session's vertices.
func (p *Pipeline) Build() error {
	p.grid = grid.Build(p.sess, p.sess.Vertices())
	p.log.Debug("grid built",
		zap.Int("rows", p.grid.SizeY()),
		zap.Int("columns", p.grid.SizeZ()),
		zap.Int("vertices", p.grid.Len()))
	return nil
}

// Subdivide splits the grid along the configured axis and rebuilds it.
func (p *Pipeline) Subdivide() error {
	if p.grid == nil {
		return &StageError{Stage: StageSubdivide, Err: ErrNoGrid}
	}

	subdivide := grid.Subdivide
	if p.opts.Axis == AxisColumns {
		subdivide = grid.SubdivideColumns
	}
	fine, err := subdivide(p.sess, p.grid, p.opts.Cuts)
	if err != nil {
		return &StageError{Stage: StageSubdivide, Err: err}
	}

	p.log.Debug("grid subdivided",
		zap.Stringer("axis", p.opts.Axis),
		zap.Int("cuts", p.opts.Cuts),
		zap.Int("rows", fine.SizeY()),
		zap.Int("columns", fine.SizeZ()))
	p.grid = fine
	return nil
}

// Triangulate splits every cell along the alternating diagonal.
func (p *Pipeline) Triangulate() error {
	if p.grid == nil {
		return &StageError{Stage: StageTriangulate, Err: ErrNoGrid}
	}
	n, err := grid.Triangulate(p.sess, p.grid)
	p.result.Triangles += n
	if err != nil {
		return &StageError{Stage: StageTriangulate, Err: err}
	}
	p.log.Debug("grid triangulated", zap.Int("triangles", n))
	return nil
}

// Spike displaces the checkerboard of interior vertices.
func (p *Pipeline) Spike() error {
	if p.grid == nil {
		return &StageError{Stage: StageSpike, Err: ErrNoGrid}
	}
	moves, err := grid.Spike(p.sess, p.grid, p.opts.Rate)
	p.record(moves)
	if err != nil {
		return &StageError{Stage: StageSpike, Err: err}
	}
	p.log.Debug("grid spiked",
		zap.Float64("rate", p.opts.Rate),
		zap.Int("moved", len(moves)))
	return nil
}

// record folds applied moves into the displacement statistics. The mean and
// max cover every move recorded on this pipeline.
func (p *Pipeline) record(moves []grid.Move) {
	if len(moves) == 0 {
		return
	}
	for _, m := range moves {
		p.lengths = append(p.lengths, m.Delta.Length())
	}
	p.result.Moved += len(moves)
	p.result.MeanDisplacement = stat.Mean(p.lengths, nil)
	p.result.MaxDisplacement = floats.Max(p.lengths)
}

// Run acquires a session on m and runs build, subdivide, triangulate and,
// when enabled, spike. The session is always released, so hooks see the mesh
// even when a stage fails. The result is returned in both cases.
func Run(m *mesh.Mesh, opts Options, log *zap.Logger, hooks ...mesh.RefreshFunc) (res *Result, err error) {
	start := time.Now()
	sess := mesh.Acquire(m, hooks...)
	p := New(sess, opts, log)

	defer func() {
		if rerr := sess.Release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("refresh: %w", rerr))
		}
		r := p.Result()
		r.Duration = time.Since(start)
		res = &r
		if err != nil {
			p.log.Error("pass failed", zap.Error(err))
			return
		}
		p.log.Info("pass complete",
			zap.Int("rows", r.Rows),
			zap.Int("columns", r.Columns),
			zap.Int("triangles", r.Triangles),
			zap.Int("moved", r.Moved),
			zap.Float64("mean_displacement", r.MeanDisplacement),
			zap.Duration("duration", r.Duration))
	}()

	stages := []func() error{p.Build, p.Subdivide, p.Triangulate}
	if opts.Spike {
		stages = append(stages, p.Spike)
	}
	for _, stage := range stages {
		if err := stage(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// RunVertices acquires a session and spikes each listed vertex using its
// first two linked neighbors.
func RunVertices(m *mesh.Mesh, vertices []mesh.VertexID, rate float64, log *zap.Logger, hooks ...mesh.RefreshFunc) (res *Result, err error) {
	sess := mesh.Acquire(m, hooks...)
	p := New(sess, Options{Rate: rate}, log)

	defer func() {
		if rerr := sess.Release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("refresh: %w", rerr))
		}
		r := p.Result()
		res = &r
		if err != nil {
			p.log.Error("vertex spike failed", zap.Error(err))
		}
	}()

	moves, err := grid.SpikeVertices(sess, vertices, rate)
	p.record(moves)
	for _, mv := range moves {
		p.log.Debug("vertex moved", zap.Int("vertex", int(mv.Vertex)), zap.Any("delta", mv.Delta))
	}
	if err != nil {
		return nil, &StageError{Stage: StageSpike, Err: err}
	}
	return nil, nil
}
