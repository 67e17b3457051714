// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Init      InitConfig      `yaml:"init"`
	Agent     AgentConfig     `yaml:"agent"`
	Trail     TrailConfig     `yaml:"trail"`
	Render    RenderConfig    `yaml:"render"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Recorder  RecorderConfig  `yaml:"recorder"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the trail field dimensions and the agent population.
// Both are fixed for the lifetime of a run.
type WorldConfig struct {
	Width  int `yaml:"width"`  // Field width in cells (0 = use screen width)
	Height int `yaml:"height"` // Field height in cells (0 = use screen height)
	Agents int `yaml:"agents"`
}

// InitConfig holds the agent placement rule.
type InitConfig struct {
	SpawnRadius float64 `yaml:"spawn_radius"` // Max distance from field centre
}

// AgentConfig holds the starting values of the per-agent motion parameters.
type AgentConfig struct {
	Velocity       float64 `yaml:"velocity"`         // Cells per frame
	TurnSpeed      float64 `yaml:"turn_speed"`       // Radians per frame
	SensorLength   float64 `yaml:"sensor_length"`    // Probe distance in cells
	SensorAngleDeg float64 `yaml:"sensor_angle_deg"` // Half-angle between forward and side probes
	SensorSize     int     `yaml:"sensor_size"`      // Probe neighbourhood half-width (0 = single cell)
}

// TrailConfig holds the starting values of the diffuse-decay step.
type TrailConfig struct {
	DecayRate     float64 `yaml:"decay_rate"`     // Multiplier applied every frame
	DiffusionRate float64 `yaml:"diffusion_rate"` // Blend factor toward the blurred value
	DiffusionSize int     `yaml:"diffusion_size"` // Blur neighbourhood half-width
	Snapshot      string  `yaml:"snapshot"`       // pre_deposit | post_deposit
}

// RenderConfig holds display buffer settings.
type RenderConfig struct {
	ColorMode     string `yaml:"color_mode"`      // mono | green | hue
	StepsPerFrame int    `yaml:"steps_per_frame"` // Pipeline passes per displayed frame
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Element count below which stages run inline
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int     `yaml:"stats_window"`          // Ticks per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
	SampleCells         int     `yaml:"sample_cells"`          // Field cells sampled per window (0 = all)
	CoverageThreshold   float64 `yaml:"coverage_threshold"`    // Intensity counted as trail
}

// RecorderConfig holds MJPEG recording parameters.
type RecorderConfig struct {
	FPS     int `yaml:"fps"`
	Every   int `yaml:"every"`   // Record one frame out of this many ticks
	Quality int `yaml:"quality"` // JPEG quality 1-100
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	WorldW, WorldH int
	SensorAngle    float32 // radians
	Workers        int
}

// Valid option strings.
var (
	ColorModes       = []string{"mono", "green", "hue"}
	SnapshotPolicies = []string{"pre_deposit", "post_deposit"}
)

var cfg *Config

// Cfg returns the global configuration. Panics if Init has not been called.
func Cfg() *Config {
	if cfg == nil {
		panic("config not initialized: call config.Init first")
	}
	return cfg
}

// Init loads configuration from the given path, or embedded defaults if path is empty.
func Init(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(err)
	}
}

// Load reads configuration from the given path, or embedded defaults if path is empty.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	c := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, c); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	c.computeDerived()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = c.Screen.Width
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = c.Screen.Height
	}

	c.Derived.SensorAngle = float32(c.Agent.SensorAngleDeg * math.Pi / 180)

	c.Derived.Workers = c.Parallel.Workers
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate reports every setting that would keep the simulation from starting.
func (c *Config) Validate() error {
	var errs []error
	if c.Derived.WorldW <= 0 || c.Derived.WorldH <= 0 {
		errs = append(errs, fmt.Errorf("world size %dx%d must be positive", c.Derived.WorldW, c.Derived.WorldH))
	}
	if c.World.Agents <= 0 {
		errs = append(errs, fmt.Errorf("world.agents must be positive, got %d", c.World.Agents))
	}
	if !(c.Init.SpawnRadius >= 0) {
		errs = append(errs, fmt.Errorf("init.spawn_radius must be >= 0, got %v", c.Init.SpawnRadius))
	}
	if !(c.Agent.Velocity >= 0) {
		errs = append(errs, fmt.Errorf("agent.velocity must be >= 0, got %v", c.Agent.Velocity))
	}
	if !(c.Agent.SensorLength >= 0) {
		errs = append(errs, fmt.Errorf("agent.sensor_length must be >= 0, got %v", c.Agent.SensorLength))
	}
	if c.Agent.SensorSize < 0 {
		errs = append(errs, fmt.Errorf("agent.sensor_size must be >= 0, got %d", c.Agent.SensorSize))
	}
	if c.Trail.DiffusionSize < 1 {
		errs = append(errs, fmt.Errorf("trail.diffusion_size must be >= 1, got %d", c.Trail.DiffusionSize))
	}
	if !slices.Contains(SnapshotPolicies, c.Trail.Snapshot) {
		errs = append(errs, fmt.Errorf("trail.snapshot %q is not one of %v", c.Trail.Snapshot, SnapshotPolicies))
	}
	if !slices.Contains(ColorModes, c.Render.ColorMode) {
		errs = append(errs, fmt.Errorf("render.color_mode %q is not one of %v", c.Render.ColorMode, ColorModes))
	}
	if c.Render.StepsPerFrame < 1 {
		errs = append(errs, fmt.Errorf("render.steps_per_frame must be >= 1, got %d", c.Render.StepsPerFrame))
	}
	if c.Telemetry.StatsWindow < 1 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be >= 1, got %d", c.Telemetry.StatsWindow))
	}
	return errors.Join(errs...)
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
