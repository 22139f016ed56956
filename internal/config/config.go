package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/filters"
	"github.com/san-kum/damper/internal/integrators"
	"github.com/san-kum/damper/internal/signal"
	"github.com/san-kum/damper/internal/sim"
)

const (
	DefaultDt       = 1.0 / 60.0
	DefaultDuration = 3.0
	DefaultSeed     = 42
)

type Config struct {
	Filter        string        `yaml:"filter"`
	Policy        string        `yaml:"policy,omitempty"`
	Integrator    string        `yaml:"integrator,omitempty"`
	Substeps      int           `yaml:"substeps,omitempty"`
	Params        dynamo.Params `yaml:"params"`
	Dt            float64       `yaml:"dt"`
	Duration      float64       `yaml:"duration"`
	Seed          int64         `yaml:"seed"`
	InitialValue  float64       `yaml:"initial_value"`
	ExactVelocity bool          `yaml:"exact_velocity"`
	Signal        signal.Spec   `yaml:"signal"`
}

func DefaultConfig() *Config {
	return &Config{
		Filter:     filters.KindDamper,
		Policy:     dynamo.PoleMatchingName,
		Integrator: "rk4",
		Params:     dynamo.Critical,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       DefaultSeed,
		Signal:     signal.DefaultSpec(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything a run needs before any filter is built.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if _, err := dynamo.PolicyByName(c.Policy); err != nil {
		return err
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if _, err := filters.New(c.FilterSpec()); err != nil {
		return err
	}
	if _, err := c.Source(); err != nil {
		return err
	}
	return nil
}

func (c *Config) FilterSpec() filters.Spec {
	return filters.Spec{
		Kind:       c.Filter,
		Params:     c.Params,
		Policy:     c.Policy,
		Integrator: c.Integrator,
		Substeps:   c.Substeps,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Seed:          c.Seed,
		InitialValue:  c.InitialValue,
		ExactVelocity: c.ExactVelocity,
	}
}

func (c *Config) Source() (signal.Source, error) {
	return signal.Parse(c.Signal, c.Seed)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ParamNames lists the damper parameters addressable by SetParam.
func ParamNames() []string {
	return []string{"frequency", "damping", "response"}
}

// SetParam assigns one damper parameter by name. The value is not
// validated here.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "frequency", "f":
		c.Params.Frequency = v
	case "damping", "z":
		c.Params.Damping = v
	case "response", "r":
		c.Params.Response = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
