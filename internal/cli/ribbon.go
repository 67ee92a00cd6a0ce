package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/togetoge/internal/logger"
	"github.com/Faultbox/togetoge/internal/mesh"
	"github.com/Faultbox/togetoge/pkg/formats"
)

func newRibbonCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ribbon",
		Short: "Write a planar quad grid to an OBJ file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Input.Ribbon
			m, err := mesh.NewRibbon(r.Rows, r.Columns, r.Spacing)
			if err != nil {
				return err
			}
			if err := formats.WriteOBJFile(a.cfg.Output.Path, m.ToOBJ()); err != nil {
				return err
			}
			logger.Info("ribbon written",
				zap.String("path", a.cfg.Output.Path),
				zap.Int("rows", r.Rows),
				zap.Int("columns", r.Columns))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&a.rows, "rows", 0, "vertex rows")
	f.IntVar(&a.cols, "cols", 0, "vertex columns")
	f.Float64Var(&a.spacing, "spacing", 0, "vertex spacing")
	a.addOutputFlag(cmd)
	return cmd
}
