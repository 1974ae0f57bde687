package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/orbit"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRoot        = "galaxy"
	DefaultDepth       = 2
	DefaultMaxChildren = 8
	DefaultDataPath    = "cosmosim.db"
	DefaultSamples     = 200
	DefaultPeriods     = 1.0
	DefaultLogLevel    = "info"
)

// Config drives generation and orbit tracking. Seed 0 means a fresh seed
// is drawn for every run.
type Config struct {
	Seed        int64           `yaml:"seed" env:"COSMOSIM_SEED"`
	Root        string          `yaml:"root" env:"COSMOSIM_ROOT"`
	Depth       int             `yaml:"depth" env:"COSMOSIM_DEPTH"`
	MaxChildren int             `yaml:"max_children" env:"COSMOSIM_MAX_CHILDREN"`
	DataPath    string          `yaml:"data_path" env:"COSMOSIM_DB"`
	Orbit       OrbitConfig     `yaml:"orbit"`
	Placement   PlacementConfig `yaml:"placement"`
	Track       TrackConfig     `yaml:"track"`
	Log         LogConfig       `yaml:"log"`
}

type OrbitConfig struct {
	MaxIterations int     `yaml:"max_iterations" env:"COSMOSIM_ORBIT_MAX_ITERATIONS"`
	Tolerance     float64 `yaml:"tolerance" env:"COSMOSIM_ORBIT_TOLERANCE"`
}

type PlacementConfig struct {
	MaxAttempts int `yaml:"max_attempts" env:"COSMOSIM_PLACEMENT_MAX_ATTEMPTS"`
}

// TrackConfig sets how orbits are sampled for display and export.
type TrackConfig struct {
	Samples int     `yaml:"samples" env:"COSMOSIM_TRACK_SAMPLES"`
	Periods float64 `yaml:"periods" env:"COSMOSIM_TRACK_PERIODS"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"COSMOSIM_LOG_LEVEL"`
	JSON  bool   `yaml:"json" env:"COSMOSIM_LOG_JSON"`
}

func DefaultConfig() *Config {
	return &Config{
		Root:        DefaultRoot,
		Depth:       DefaultDepth,
		MaxChildren: DefaultMaxChildren,
		DataPath:    DefaultDataPath,
		Orbit: OrbitConfig{
			MaxIterations: orbit.DefaultMaxIterations,
			Tolerance:     orbit.DefaultTolerance,
		},
		Placement: PlacementConfig{MaxAttempts: hierarchy.DefaultMaxAttempts},
		Track:     TrackConfig{Samples: DefaultSamples, Periods: DefaultPeriods},
		Log:       LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields whose COSMOSIM_* variables are set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	switch {
	case c.Depth < 0:
		return fmt.Errorf("config: depth must be >= 0, got %d", c.Depth)
	case c.MaxChildren < 0:
		return fmt.Errorf("config: max_children must be >= 0, got %d", c.MaxChildren)
	case c.Orbit.Tolerance < 0:
		return fmt.Errorf("config: orbit tolerance must be >= 0, got %g", c.Orbit.Tolerance)
	case c.Track.Samples < 0:
		return fmt.Errorf("config: track samples must be >= 0, got %d", c.Track.Samples)
	}
	return nil
}

func (c *Config) Solver() orbit.Solver {
	return orbit.Solver{MaxIterations: c.Orbit.MaxIterations, Tolerance: c.Orbit.Tolerance}
}

func (c *Config) GeneratorOptions() hierarchy.Options {
	return hierarchy.Options{MaxAttempts: c.Placement.MaxAttempts}
}
