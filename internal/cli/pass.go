package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/togetoge/internal/config"
	"github.com/Faultbox/togetoge/internal/logger"
	"github.com/Faultbox/togetoge/internal/mesh"
	"github.com/Faultbox/togetoge/internal/pipeline"
	"github.com/Faultbox/togetoge/internal/preview"
	"github.com/Faultbox/togetoge/pkg/formats"
)

func newPassCmd(a *app, name, short string, spike bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(a.cfg, spike)
		},
	}

	a.addInputFlags(cmd)
	a.addOutputFlag(cmd)
	f := cmd.Flags()
	f.IntVar(&a.cuts, "cuts", 0, "new rows (or columns) inserted per gap, must be positive")
	f.StringVar(&a.overrides.Axis, "axis", "", "subdivision axis: rows or columns")
	f.StringVar(&a.overrides.Preview, "preview", "", "write a depth profile plot (png, svg, pdf)")
	if spike {
		f.Float64Var(&a.rate, "rate", 0, "spike displacement rate (negative pulls along -X)")
	}
	return cmd
}

func runPass(cfg *config.Config, spike bool) error {
	m, err := loadMesh(cfg)
	if err != nil {
		return err
	}

	axis, err := pipeline.ParseAxis(cfg.Pass.Axis)
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Cuts:  cfg.Pass.Cuts,
		Rate:  cfg.Pass.Rate,
		Axis:  axis,
		Spike: spike,
	}

	res, err := pipeline.Run(m, opts, logger.Named("pipeline"), writeOutput(cfg.Output.Path))
	if err != nil {
		return err
	}

	if cfg.Output.Preview != "" {
		if err := preview.Profile(m, res.Grid, cfg.Output.Preview, cfg.Output.PreviewColumns...); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		lo, hi := preview.Extent(m, res.Grid)
		logger.Info("preview written",
			zap.String("path", cfg.Output.Preview),
			zap.Float64("depth_min", lo),
			zap.Float64("depth_max", hi))
	}
	return nil
}

func newVertexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vertex",
		Short: "Spike individual vertices using their first two linked neighbors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if len(cfg.Pass.Vertices) == 0 {
				return fmt.Errorf("%w: no vertices given", config.ErrInvalidConfig)
			}
			m, err := loadMesh(cfg)
			if err != nil {
				return err
			}
			vs := make([]mesh.VertexID, len(cfg.Pass.Vertices))
			for i, v := range cfg.Pass.Vertices {
				vs[i] = mesh.VertexID(v)
			}
			_, err = pipeline.RunVertices(m, vs, cfg.Pass.Rate, logger.Named("pipeline"), writeOutput(cfg.Output.Path))
			return err
		},
	}

	a.addInputFlags(cmd)
	a.addOutputFlag(cmd)
	cmd.Flags().IntSliceVar(&a.overrides.Vertices, "vertex", nil, "vertex index to spike (repeatable)")
	cmd.Flags().Float64Var(&a.rate, "rate", 0, "spike displacement rate")
	return cmd
}

// loadMesh reads the configured OBJ file, or generates a ribbon when no
// input is set.
func loadMesh(cfg *config.Config) (*mesh.Mesh, error) {
	if cfg.Input.Path == "" {
		r := cfg.Input.Ribbon
		logger.Debug("generating ribbon",
			zap.Int("rows", r.Rows),
			zap.Int("columns", r.Columns),
			zap.Float64("spacing", r.Spacing))
		return mesh.NewRibbon(r.Rows, r.Columns, r.Spacing)
	}

	obj, err := formats.ParseOBJFile(cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	m, err := mesh.FromOBJ(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input.Path, err)
	}
	logger.Info("mesh loaded",
		zap.String("path", cfg.Input.Path),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()))
	return m, nil
}

// writeOutput returns a refresh hook that saves the mesh to path.
func writeOutput(path string) mesh.RefreshFunc {
	return func(m *mesh.Mesh) error {
		if err := formats.WriteOBJFile(path, m.ToOBJ()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("mesh written",
			zap.String("path", path),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()))
		return nil
	}
}
