package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
)

const (
	defaultDatabase     = "amplitude.sqlite"
	defaultMaxBatchSize = 100
)

// ConfigError is a custom error type for configuration errors
type ConfigError struct {
	msg string
}

func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return e.msg
}

// Seconds is a time offset or period in seconds. In YAML it is given either
// as a number of seconds or as a duration string such as "-500ms" or "2s".
type Seconds float64

func (s *Seconds) UnmarshalYAML(value *yaml.Node) error {
	if v, err := strconv.ParseFloat(value.Value, 64); err == nil {
		*s = Seconds(v)
		return nil
	}

	duration, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("app.Seconds: failed to parse: %s", err)
	}

	*s = Seconds(duration.Seconds())
	return nil
}

func (s Seconds) MarshalYAML() (interface{}, error) {
	return float64(s), nil
}

func (s *Seconds) UnmarshalJSON(bytes []byte) error {
	var v float64
	if err := json.Unmarshal(bytes, &v); err != nil {
		return fmt.Errorf("app.Seconds: failed to parse: %s", err)
	}
	*s = Seconds(v)
	return nil
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(s))
}

// Config represents the main application configuration
type Config struct {
	Settings    Settings          `yaml:"settings"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Warning     WarningConfig     `yaml:"warning"`
	Storage     StorageConfig     `yaml:"storage"`
	Workers     int               `yaml:"workers"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// CalibrationConfig represents the amplitude calibration curve
type CalibrationConfig struct {
	NominalPeriod   Seconds   `yaml:"nominalPeriod"`
	FrequencyValues []float64 `yaml:"frequencyValues"`
	AmplitudeValues []float64 `yaml:"amplitudeValues"`
}

// WarningConfig represents the thresholds past which a measurement is flagged
type WarningConfig struct {
	Period struct {
		Min Seconds `yaml:"min"`
		Max Seconds `yaml:"max"`
	} `yaml:"period"`
	Window struct {
		StartOffset Seconds `yaml:"startOffset"`
		EndOffset   Seconds `yaml:"endOffset"`
	} `yaml:"window"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	Database      string `yaml:"database"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// NewConfig returns a configuration populated with the built-in defaults
func NewConfig() *Config {
	defaults := amplitude.DefaultConfig()

	c := Config{
		Settings: Settings{LogLevel: "info"},
		Calibration: CalibrationConfig{
			NominalPeriod:   Seconds(defaults.NominalCalibrationPeriod),
			FrequencyValues: defaults.Calibration.FrequencyValues,
			AmplitudeValues: defaults.Calibration.AmplitudeValues,
		},
		Storage: StorageConfig{
			Database:     defaultDatabase,
			MaxBatchSize: defaultMaxBatchSize,
		},
		Workers: runtime.NumCPU(),
	}
	c.Warning.Period.Min = Seconds(defaults.Warning.Period.Min)
	c.Warning.Period.Max = Seconds(defaults.Warning.Period.Max)
	c.Warning.Window.StartOffset = Seconds(defaults.Warning.Window.StartOffset)
	c.Warning.Window.EndOffset = Seconds(defaults.Warning.Window.EndOffset)

	return &c
}

// LoadConfig reads the YAML configuration file at path on top of the defaults
// and validates the result
func LoadConfig(path string) (*Config, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	return ParseConfig(p)
}

// ParseConfig decodes a YAML configuration on top of the defaults and
// validates the result
func ParseConfig(p []byte) (*Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(p, c); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return level, NewConfigError("app.Config: invalid log level: %s", c.Settings.LogLevel)
	}
	return level, nil
}

// Amplitude returns the calibration and warning settings for the measurer
func (c *Config) Amplitude() amplitude.Config {
	return amplitude.Config{
		NominalCalibrationPeriod: float64(c.Calibration.NominalPeriod),
		Calibration: amplitude.CalibrationCurve{
			FrequencyValues: c.Calibration.FrequencyValues,
			AmplitudeValues: c.Calibration.AmplitudeValues,
		},
		Warning: amplitude.WarningBounds{
			Period: amplitude.PeriodBounds{
				Min: float64(c.Warning.Period.Min),
				Max: float64(c.Warning.Period.Max),
			},
			Window: amplitude.WindowBounds{
				StartOffset: float64(c.Warning.Window.StartOffset),
				EndOffset:   float64(c.Warning.Window.EndOffset),
			},
		},
	}
}

func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if err := c.Amplitude().Validate(); err != nil {
		return fmt.Errorf("app.Config: %w", err)
	}
	if c.Storage.Database == "" {
		return NewConfigError("app.Config: storage database file name is required")
	}
	if c.Storage.MaxBatchSize <= 0 {
		return NewConfigError("app.Config: storage max batch size must be positive: %d given", c.Storage.MaxBatchSize)
	}
	if c.Workers <= 0 {
		return NewConfigError("app.Config: workers must be positive: %d given", c.Workers)
	}
	return nil
}
