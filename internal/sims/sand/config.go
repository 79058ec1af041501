package sand

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params holds the tunable physics and input values for the sand sim.
type Params struct {
	// Gravity is the downward acceleration in cells per second squared.
	Gravity float64 `yaml:"gravity"`
	// SpawnVelocity seeds the velocity of freshly spawned cells.
	SpawnVelocity float64 `yaml:"spawn_velocity"`
	// MaxVelocity caps integrated velocity. Zero leaves it unbounded.
	MaxVelocity float64 `yaml:"max_velocity"`
	// BrushRadius is the disc radius used by SpawnBrush.
	BrushRadius int `yaml:"brush_radius"`
	// Prefill is the fraction of non-floor cells filled by Reset.
	Prefill float64 `yaml:"prefill"`
	// MaxDT caps the frame delta fed to Step by interactive front ends.
	MaxDT float64 `yaml:"max_dt"`
}

// Config controls the sand simulation dimensions and parameters.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 192,
		Seed:   1337,
		Params: Params{
			Gravity:       9.81,
			SpawnVelocity: 1.0,
			MaxVelocity:   0,
			BrushRadius:   0,
			Prefill:       0,
			MaxDT:         0.1,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["gravity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.Gravity = parsed
		}
	}
	if v, ok := cfg["spawn_velocity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SpawnVelocity = parsed
		}
	}
	if v, ok := cfg["max_velocity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.MaxVelocity = parsed
		}
	}
	if v, ok := cfg["brush_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.BrushRadius = parsed
		}
	}
	if v, ok := cfg["prefill"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.Prefill = parsed
		}
	}
	if v, ok := cfg["max_dt"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.MaxDT = parsed
		}
	}
	return c
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate rejects configurations the simulator cannot run with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", c.Width, c.Height)
	}
	if c.Params.Gravity < 0 {
		return fmt.Errorf("gravity must be non-negative, got %g", c.Params.Gravity)
	}
	if c.Params.SpawnVelocity < 0 {
		return fmt.Errorf("spawn_velocity must be non-negative, got %g", c.Params.SpawnVelocity)
	}
	if c.Params.MaxVelocity < 0 {
		return fmt.Errorf("max_velocity must be non-negative, got %g", c.Params.MaxVelocity)
	}
	if c.Params.BrushRadius < 0 {
		return fmt.Errorf("brush_radius must be non-negative, got %d", c.Params.BrushRadius)
	}
	if c.Params.Prefill < 0 || c.Params.Prefill > 1 {
		return fmt.Errorf("prefill must be within [0, 1], got %g", c.Params.Prefill)
	}
	if c.Params.MaxDT < 0 {
		return fmt.Errorf("max_dt must be non-negative, got %g", c.Params.MaxDT)
	}
	return nil
}
