// Package config defines the YAML run configuration and named presets for the
// isinglab CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/lattice"
)

const (
	DefaultSize   = 128
	DefaultTemp   = 2.0
	DefaultJ      = 1.0
	DefaultSweeps = 60
	DefaultDt     = ising.DefaultDt
)

// Config describes a single simulation run.
type Config struct {
	Rows      int            `yaml:"rows"`
	Cols      int            `yaml:"cols"`
	Temp      float64        `yaml:"temp"`
	JRow      float64        `yaml:"j_row"`
	JCol      float64        `yaml:"j_col"`
	Field     float64        `yaml:"field"`
	InitState string         `yaml:"init_state"`
	Sweeps    int            `yaml:"sweeps"`
	Seed      int64          `yaml:"seed"`
	Dt        float64        `yaml:"dt"`
	Schedule  ScheduleConfig `yaml:"schedule"`
}

// ScheduleConfig selects a temperature/field driver layered over the run.
type ScheduleConfig struct {
	Kind        string  `yaml:"kind"` // "", "constant", "cooling", "heating", "sine-field"
	FinalTemp   float64 `yaml:"final_temp"`
	CoolingRate float64 `yaml:"cooling_rate"`
	TempStep    float64 `yaml:"temp_step"`
	StepEvery   float64 `yaml:"step_every"`
	FieldAmp    float64 `yaml:"field_amp"`
	FieldFreq   float64 `yaml:"field_freq"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:      DefaultSize,
		Cols:      DefaultSize,
		Temp:      DefaultTemp,
		JRow:      DefaultJ,
		JCol:      DefaultJ,
		InitState: string(lattice.InitRandom),
		Sweeps:    DefaultSweeps,
		Dt:        DefaultDt,
	}
}

// Load reads path and overlays it on DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Validate rejects values the core would silently coerce, so mistakes surface
// at the CLI boundary instead.
func (c *Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("config: rows and cols must be positive, got %dx%d", c.Rows, c.Cols)
	}
	if c.Temp <= 0 {
		return fmt.Errorf("config: temp must be positive, got %g", c.Temp)
	}
	switch lattice.Init(c.InitState) {
	case lattice.InitUp, lattice.InitDown, lattice.InitRandom, "":
	default:
		return fmt.Errorf("config: unknown init_state %q (want up, down or random)", c.InitState)
	}
	if c.Sweeps < 0 {
		return fmt.Errorf("config: sweeps must be non-negative, got %d", c.Sweeps)
	}
	switch c.Schedule.Kind {
	case "", "constant", "cooling", "heating", "sine-field":
	default:
		return fmt.Errorf("config: unknown schedule kind %q", c.Schedule.Kind)
	}
	return nil
}

// LatticeConfig translates the run configuration into the core's constructor
// input.
func (c *Config) LatticeConfig() lattice.Config {
	init := lattice.Init(c.InitState)
	if init == "" {
		init = lattice.InitRandom
	}
	return lattice.Config{
		Rows:        c.Rows,
		Cols:        c.Cols,
		Temperature: c.Temp,
		Coupling:    lattice.Coupling{Row: c.JRow, Col: c.JCol},
		Field:       c.Field,
		Init:        init,
		Seed:        c.Seed,
	}
}

// BuildSchedule materializes the configured driver, or nil when the run uses
// constant parameters with no explicit schedule block.
func (c *Config) BuildSchedule() ising.Schedule {
	s := c.Schedule
	switch s.Kind {
	case "constant":
		return ising.Constant(c.Temp, c.Field)
	case "cooling":
		return ising.ExponentialCooling(c.Temp, s.FinalTemp, s.CoolingRate, c.Field)
	case "heating":
		return ising.LinearHeating(c.Temp, s.TempStep, s.StepEvery, c.Field)
	case "sine-field":
		return ising.SineField(c.Temp, s.FieldAmp, s.FieldFreq)
	default:
		return nil
	}
}
