package config

// Overrides carries command-line values. Empty strings and nil pointers leave
// the loaded setting untouched. Numeric values are pointers so an explicit
// zero or negative value reaches Validate instead of being ignored.
type Overrides struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Input      string
	Rows       *int
	Columns    *int
	Spacing    *float64
	Cuts       *int
	Rate       *float64
	Axis       string
	Vertices   []int
	Output     string
	Preview    string
}

// apply applies CLI overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.Input != "" {
		cfg.Input.Path = o.Input
	}
	if o.Rows != nil {
		cfg.Input.Ribbon.Rows = *o.Rows
	}
	if o.Columns != nil {
		cfg.Input.Ribbon.Columns = *o.Columns
	}
	if o.Spacing != nil {
		cfg.Input.Ribbon.Spacing = *o.Spacing
	}
	if o.Cuts != nil {
		cfg.Pass.Cuts = *o.Cuts
	}
	if o.Rate != nil {
		cfg.Pass.Rate = *o.Rate
	}
	if o.Axis != "" {
		cfg.Pass.Axis = o.Axis
	}
	if len(o.Vertices) > 0 {
		cfg.Pass.Vertices = o.Vertices
	}
	if o.Output != "" {
		cfg.Output.Path = o.Output
	}
	if o.Preview != "" {
		cfg.Output.Preview = o.Preview
	}
}
