// Package config handles loading and validating pass settings.
package config

import (
	"errors"
	"fmt"
)

// Subdivision axes.
const (
	AxisRows    = "rows"    // insert rows between adjacent rows
	AxisColumns = "columns" // insert vertices into each row (ribbon mode)
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings for a pass.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Pass    PassConfig    `yaml:"pass"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig selects the source mesh.
type InputConfig struct {
	Path   string       `yaml:"path"` // OBJ file; empty generates a ribbon
	Ribbon RibbonConfig `yaml:"ribbon"`
}

// RibbonConfig describes a generated planar quad grid.
type RibbonConfig struct {
	Rows    int     `yaml:"rows"`
	Columns int     `yaml:"columns"`
	Spacing float64 `yaml:"spacing"`
}

// PassConfig holds the transform parameters.
type PassConfig struct {
	Cuts     int     `yaml:"cuts"`
	Rate     float64 `yaml:"rate"`
	Axis     string  `yaml:"axis"`
	Vertices []int   `yaml:"vertices,omitempty"` // single-vertex spikes
}

// OutputConfig holds output paths.
type OutputConfig struct {
	Path           string `yaml:"path"`
	Preview        string `yaml:"preview"`
	PreviewColumns []int  `yaml:"preview_columns,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Ribbon: RibbonConfig{
				Rows:    4,
				Columns: 4,
				Spacing: 1.0,
			},
		},
		Pass: PassConfig{
			Cuts: 3,
			Rate: -0.5,
			Axis: AxisRows,
		},
		Output: OutputConfig{
			Path: "togetoge.obj",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Pass.Cuts < 1 {
		return fmt.Errorf("%w: pass.cuts must be positive, got %d", ErrInvalidConfig, c.Pass.Cuts)
	}
	if c.Pass.Axis != AxisRows && c.Pass.Axis != AxisColumns {
		return fmt.Errorf("%w: pass.axis must be %q or %q, got %q", ErrInvalidConfig, AxisRows, AxisColumns, c.Pass.Axis)
	}
	if c.Input.Path == "" {
		r := c.Input.Ribbon
		if r.Rows < 1 || r.Columns < 1 {
			return fmt.Errorf("%w: ribbon needs at least 1x1 vertices, got %dx%d", ErrInvalidConfig, r.Rows, r.Columns)
		}
		if r.Spacing <= 0 {
			return fmt.Errorf("%w: ribbon spacing must be positive, got %g", ErrInvalidConfig, r.Spacing)
		}
	}
	for _, v := range c.Pass.Vertices {
		if v < 0 {
			return fmt.Errorf("%w: vertex index %d", ErrInvalidConfig, v)
		}
	}
	return nil
}
