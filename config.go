package cursorlang

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shibukawa/cursorlang/clock"
)

// Config represents the cursorlang.yaml configuration
type Config struct {
	Canvas CanvasConfig `yaml:"canvas"`
	Run    RunConfig    `yaml:"run"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// CanvasConfig is the drawing surface used by run and test.
type CanvasConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background string  `yaml:"background"`
}

// RunConfig controls pacing and checks.
type RunConfig struct {
	Clock     string `yaml:"clock"` // unbounded, fps, step or timebox
	FPS       int    `yaml:"fps"`
	TimeBox   string `yaml:"timebox"` // duration, e.g. 16ms
	Typecheck *bool  `yaml:"typecheck"`
	Timeout   string `yaml:"timeout"` // per literate program in `test`
}

// OutputConfig controls where drawings go.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // svg or lines
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	ClockUnbounded = "unbounded"
	ClockFPS       = "fps"
	ClockStep      = "step"
	ClockTimeBox   = "timebox"

	FormatSVG   = "svg"
	FormatLines = "lines"
)

// LoadConfig loads configuration from the specified file. A missing file
// yields the default configuration. ${VAR} references are expanded after
// .env files are loaded.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a configuration document strictly.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions([]byte(os.ExpandEnv(string(data))), &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the configuration used without cursorlang.yaml.
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

func boolPtr(b bool) *bool {
	return &b
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Canvas.Width == 0 {
		config.Canvas.Width = 400
	}

	if config.Canvas.Height == 0 {
		config.Canvas.Height = 400
	}

	if config.Canvas.Background == "" {
		config.Canvas.Background = "#FFFFFF"
	}

	if config.Run.Clock == "" {
		config.Run.Clock = ClockUnbounded
	}

	if config.Run.FPS == 0 {
		config.Run.FPS = 30
	}

	if config.Run.TimeBox == "" {
		config.Run.TimeBox = "16ms"
	}

	if config.Run.Typecheck == nil {
		config.Run.Typecheck = boolPtr(true)
	}

	if config.Run.Timeout == "" {
		config.Run.Timeout = "5s"
	}

	if config.Output.Dir == "" {
		config.Output.Dir = "."
	}

	if config.Output.Format == "" {
		config.Output.Format = FormatSVG
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	if config.Canvas.Width < 0 || config.Canvas.Height < 0 {
		return fmt.Errorf("%w: canvas size must not be negative", ErrConfigValidation)
	}

	switch config.Run.Clock {
	case ClockUnbounded, ClockFPS, ClockStep, ClockTimeBox:
	default:
		return fmt.Errorf("%w: invalid run.clock '%s': must be one of unbounded, fps, step, timebox", ErrConfigValidation, config.Run.Clock)
	}

	if config.Run.FPS < 0 {
		return fmt.Errorf("%w: run.fps must not be negative", ErrConfigValidation)
	}

	for key, value := range map[string]string{"run.timebox": config.Run.TimeBox, "run.timeout": config.Run.Timeout} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: invalid %s '%s': %w", ErrConfigValidation, key, value, err)
		}
	}

	switch config.Output.Format {
	case FormatSVG, FormatLines:
	default:
		return fmt.Errorf("%w: invalid output.format '%s': must be svg or lines", ErrConfigValidation, config.Output.Format)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("%w: invalid log.level '%s'", ErrConfigValidation, config.Log.Level)
	}

	return nil
}

// TypecheckEnabled reports whether programs are checked before running.
func (r RunConfig) TypecheckEnabled() bool {
	return r.Typecheck == nil || *r.Typecheck
}

// TimeoutDuration is the parsed run.timeout. Invalid values fall back to 5s.
func (r RunConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 5 * time.Second
	}

	return d
}

// NewClock builds the configured clock. The step clock is returned too so
// that hosts can resume it; it is nil for the other kinds.
func (r RunConfig) NewClock() (clock.Clock, *clock.Step, error) {
	switch r.Clock {
	case ClockUnbounded, "":
		return clock.Unbounded{}, nil, nil
	case ClockFPS:
		return clock.NewFPS(r.FPS), nil, nil
	case ClockTimeBox:
		d, err := time.ParseDuration(r.TimeBox)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid run.timebox '%s': %w", ErrConfigValidation, r.TimeBox, err)
		}

		return clock.NewTimeBox(d), nil, nil
	case ClockStep:
		step := clock.NewStep()
		return step, step, nil
	}

	return nil, nil, fmt.Errorf("%w: invalid run.clock '%s'", ErrConfigValidation, r.Clock)
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
