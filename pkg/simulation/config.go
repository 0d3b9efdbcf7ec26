package simulation

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-antcluster/pkg/colony"
	"github.com/dd0wney/cluso-antcluster/pkg/validation"
	"github.com/dd0wney/cluso-antcluster/pkg/visualization"
)

// Config holds everything a run needs besides the nodes themselves
type Config struct {
	Ants       int     `yaml:"ants"`
	Iterations int     `yaml:"iterations"`
	Radius     float64 `yaml:"radius" validate:"gt=0"`
	Momentum   float64 `yaml:"momentum" validate:"gte=0,lte=1"`

	// StepSize only matters while Momentum is below 1.
	StepSize float64 `yaml:"step_size"`

	// Alpha and Beta are forwarded to every pickup and drop call.
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`

	// Seed drives ant movement and the initial layout.
	Seed uint64 `yaml:"seed"`
	// AntSeed seeds ant 0's decision source; ant i uses AntSeed+i.
	AntSeed int64 `yaml:"ant_seed"`

	Layout string                     `yaml:"layout"`
	Plane  visualization.LayoutConfig `yaml:"plane"`
	Colony colony.Params              `yaml:"colony"`

	// Clusters is the number of centers used when evaluating a run.
	Clusters int `yaml:"clusters" validate:"gte=1"`
	// RefineIterations bounds the center refinement in Centers.
	RefineIterations int `yaml:"refine_iterations"`
}

// DefaultConfig returns settings that work for a few hundred nodes
func DefaultConfig() *Config {
	return &Config{
		Ants:       10,
		Iterations: 2000,
		Radius:     8,
		StepSize:   2,
		Momentum:   0.5,
		Seed:       1,
		AntSeed:    colony.DefaultSeed,
		Layout:     "random",
		Plane: visualization.LayoutConfig{
			Width:   100,
			Height:  100,
			Padding: 0,
			Seed:    1,
		},
		Colony:           colony.DefaultParams(),
		Clusters:         3,
		RefineIterations: 10,
	}
}

// Validate checks struct tags first, then the rules that span fields
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Colony.Validate(); err != nil {
		return err
	}

	return validation.NewConfigValidator("simulation").
		Positive("ants", c.Ants).
		NonNegative("iterations", c.Iterations).
		NonNegative("refine_iterations", c.RefineIterations).
		OneOf("layout", c.Layout, visualization.LayoutNames).
		Finite("radius", c.Radius).
		When(c.Momentum < 1, func(cv *validation.ConfigValidator) {
			cv.PositiveFloat("step_size", c.StepSize)
		}).
		NonNegativeFloat("plane.padding", c.Plane.Padding).
		Custom("plane.padding", func() error {
			if 2*c.Plane.Padding >= math.Min(c.Plane.Width, c.Plane.Height) {
				return fmt.Errorf("padding %v leaves no room in a %vx%v plane", c.Plane.Padding, c.Plane.Width, c.Plane.Height)
			}
			return nil
		}).
		Custom("radius", func() error {
			if c.Radius > math.Hypot(c.Plane.Width, c.Plane.Height) {
				return fmt.Errorf("radius %v exceeds the plane diagonal", c.Radius)
			}
			return nil
		}).
		Validate()
}

// ParseConfig reads YAML on top of DefaultConfig and validates the result
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and validates a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}
