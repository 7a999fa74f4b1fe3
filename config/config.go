// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Animal    AnimalConfig    `yaml:"animal"`
	Eye       EyeConfig       `yaml:"eye"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the window and terminal viewers.
type ScreenConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	TargetFPS     int `yaml:"target_fps"`
	StepsPerFrame int `yaml:"steps_per_frame"` // Simulation steps advanced per rendered frame
}

// WorldConfig holds population sizes and the collision radius.
type WorldConfig struct {
	Animals   int     `yaml:"animals"`
	Foods     int     `yaml:"foods"`
	EatRadius float64 `yaml:"eat_radius"` // Euclidean distance at which an animal eats a food
}

// AnimalConfig holds movement limits.
type AnimalConfig struct {
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	SpeedAccel    float64 `yaml:"speed_accel"`    // Max |speed delta| a brain may request per step
	RotationAccel float64 `yaml:"rotation_accel"` // Max |rotation delta| per step (radians)
	StartSpeed    float64 `yaml:"start_speed"`
}

// EyeConfig holds vision parameters shared by every animal.
type EyeConfig struct {
	FOVRange float64 `yaml:"fov_range"`
	FOVAngle float64 `yaml:"fov_angle"` // Radians, centered on the heading
	Cells    int     `yaml:"cells"`
}

// EvolutionConfig holds generation length and genetic operator parameters.
type EvolutionConfig struct {
	GenerationLength int     `yaml:"generation_length"` // Steps per generation
	MutationChance   float64 `yaml:"mutation_chance"`
	MutationCoeff    float64 `yaml:"mutation_coeff"`
}

// TelemetryConfig holds output settings.
type TelemetryConfig struct {
	CSV            bool `yaml:"csv"`             // Write generations.csv when an output dir is set
	LogGenerations bool `yaml:"log_generations"` // Log a summary line per generation
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	HiddenNeurons int
	BrainInputs   int
	BrainOutputs  int
}

var global *Config

// Init loads configuration from the given path (or defaults if empty).
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load reads configuration from a YAML file, using embedded defaults as base.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Parse overlays YAML data on the embedded defaults. Empty data yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Only overwrites fields present in data
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range parameter.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.World.Animals > 0, "world.animals must be positive, got %d", c.World.Animals)
	check(c.World.Foods >= 0, "world.foods must not be negative, got %d", c.World.Foods)
	check(c.World.EatRadius > 0, "world.eat_radius must be positive, got %g", c.World.EatRadius)

	check(c.Animal.SpeedMin > 0, "animal.speed_min must be positive, got %g", c.Animal.SpeedMin)
	check(c.Animal.SpeedMax >= c.Animal.SpeedMin, "animal.speed_max %g is below speed_min %g", c.Animal.SpeedMax, c.Animal.SpeedMin)
	check(c.Animal.StartSpeed >= c.Animal.SpeedMin && c.Animal.StartSpeed <= c.Animal.SpeedMax,
		"animal.start_speed %g outside [%g, %g]", c.Animal.StartSpeed, c.Animal.SpeedMin, c.Animal.SpeedMax)
	check(c.Animal.SpeedAccel >= 0, "animal.speed_accel must not be negative, got %g", c.Animal.SpeedAccel)
	check(c.Animal.RotationAccel >= 0, "animal.rotation_accel must not be negative, got %g", c.Animal.RotationAccel)

	check(c.Eye.FOVRange > 0, "eye.fov_range must be positive, got %g", c.Eye.FOVRange)
	check(c.Eye.FOVAngle > 0 && c.Eye.FOVAngle <= 2*math.Pi, "eye.fov_angle must be in (0, 2pi], got %g", c.Eye.FOVAngle)
	check(c.Eye.Cells > 0, "eye.cells must be positive, got %d", c.Eye.Cells)

	check(c.Evolution.GenerationLength > 0, "evolution.generation_length must be positive, got %d", c.Evolution.GenerationLength)
	check(c.Evolution.MutationChance >= 0 && c.Evolution.MutationChance <= 1,
		"evolution.mutation_chance must be in [0, 1], got %g", c.Evolution.MutationChance)
	check(c.Evolution.MutationCoeff >= 0, "evolution.mutation_coeff must not be negative, got %g", c.Evolution.MutationCoeff)

	return errors.Join(errs...)
}

// computeDerived calculates derived values from the loaded config.
func (c *Config) computeDerived() {
	c.Derived.BrainInputs = c.Eye.Cells
	c.Derived.HiddenNeurons = 2 * c.Eye.Cells
	c.Derived.BrainOutputs = 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
