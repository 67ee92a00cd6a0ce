// Package cli implements the togetoge command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/togetoge/internal/config"
	"github.com/Faultbox/togetoge/internal/logger"
)

var (
	version = "dev" // semantic version, set via ldflags
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app carries state shared between the root command and its subcommands.
// Flags write into overrides; PersistentPreRunE turns them into cfg.
type app struct {
	overrides config.Overrides
	rows      int
	cols      int
	spacing   float64
	cuts      int
	rate      float64
	cfg       *config.Config
}

// Execute runs the togetoge CLI. Failures are logged and returned so the
// caller can pick the exit status.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "togetoge",
		Short:         "Zigzag crease and spiked-surface transforms for planar meshes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("togetoge %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVar(&a.overrides.ConfigPath, "config", "", "config file (default ./togetoge.yaml or the user config dir)")
	pf.BoolVar(&a.overrides.Debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.overrides.LogFile, "log-file", "", "also write JSON logs to this file")

	root.AddCommand(newPassCmd(a, "spike", "Subdivide, triangulate and spike a grid mesh", true))
	root.AddCommand(newPassCmd(a, "zigzag", "Subdivide and triangulate a grid mesh without spiking", false))
	root.AddCommand(newVertexCmd(a))
	root.AddCommand(newRibbonCmd(a))
	root.AddCommand(newConfigCmd(a))

	return root
}

// setup loads configuration and initializes logging for the command about
// to run.
func (a *app) setup(cmd *cobra.Command) error {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("rows") {
		a.overrides.Rows = &a.rows
	}
	if changed("cols") {
		a.overrides.Columns = &a.cols
	}
	if changed("spacing") {
		a.overrides.Spacing = &a.spacing
	}
	if changed("cuts") {
		a.overrides.Cuts = &a.cuts
	}
	if changed("rate") {
		a.overrides.Rate = &a.rate
	}

	cfg, err := config.Load(a.overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("command", cmd.Name()), zap.Any("config", cfg))
	return nil
}

// addInputFlags registers the flags that select the source mesh.
func (a *app) addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&a.overrides.Input, "input", "i", "", "input OBJ file (.obj or .obj.zst); empty generates a ribbon")
	f.IntVar(&a.rows, "rows", 0, "generated ribbon rows")
	f.IntVar(&a.cols, "cols", 0, "generated ribbon columns")
	f.Float64Var(&a.spacing, "spacing", 0, "generated ribbon vertex spacing")
}

func (a *app) addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.overrides.Output, "output", "o", "", "output OBJ file (.obj or .obj.zst)")
}
