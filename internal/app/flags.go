package app

import "flag"

// Config represents the command-line parameters for the application.
type Config struct {
	Sim          string
	Scale        int
	TPS          int
	Seed         int64
	Width        int
	Height       int
	ConfigPath   string
	SnapshotPath string
	HUDWidth     int

	// SeedSet records that -seed was given explicitly, so it overrides a
	// seed read from a config file.
	SeedSet bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "sand", Scale: 3, TPS: 60, Seed: 42, SnapshotPath: "sand.snap", HUDWidth: 260}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Width, "w", c.Width, "grid width (0 keeps the sim default)")
	fs.IntVar(&c.Height, "h", c.Height, "grid height (0 keeps the sim default)")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML sim config file")
	fs.StringVar(&c.SnapshotPath, "snapshot", c.SnapshotPath, "snapshot file used by the save/load keys")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
}

// MarkExplicit records which flags were set on the command line. Call it
// after fs.Parse.
func (c *Config) MarkExplicit(fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			c.SeedSet = true
		}
	})
}
