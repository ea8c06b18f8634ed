package app

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
)

func TestParseConfig_Defaults(t *testing.T) {
	c, err := ParseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", c.Settings.LogLevel)
	assert.Equal(t, defaultDatabase, c.Storage.Database)
	assert.Equal(t, defaultMaxBatchSize, c.Storage.MaxBatchSize)
	assert.Equal(t, runtime.NumCPU(), c.Workers)
	assert.Equal(t, amplitude.DefaultConfig(), c.Amplitude())
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(`
settings:
  logLevel: debug
calibration:
  nominalPeriod: 1s
  frequencyValues: [0.5, 1, 2]
  amplitudeValues: [0.5, 1, 0.5]
warning:
  period:
    min: 200ms
    max: 3
  window:
    startOffset: -500ms
    endOffset: 4.5
storage:
  dataDirectory: /var/lib/amplitude
  maxBatchSize: 10
workers: 3
`))
	require.NoError(t, err)

	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	assert.Equal(t, "/var/lib/amplitude", c.Storage.DataDirectory)
	assert.Equal(t, defaultDatabase, c.Storage.Database)
	assert.Equal(t, 10, c.Storage.MaxBatchSize)
	assert.Equal(t, 3, c.Workers)

	ac := c.Amplitude()
	assert.Equal(t, 1.0, ac.NominalCalibrationPeriod)
	assert.Equal(t, []float64{0.5, 1, 2}, ac.Calibration.FrequencyValues)
	assert.Equal(t, []float64{0.5, 1, 0.5}, ac.Calibration.AmplitudeValues)
	assert.InDelta(t, 0.2, ac.Warning.Period.Min, 1e-12)
	assert.Equal(t, 3.0, ac.Warning.Period.Max)
	assert.Equal(t, -0.5, ac.Warning.Window.StartOffset)
	assert.Equal(t, 4.5, ac.Warning.Window.EndOffset)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		configError bool
		target      error
	}{
		{
			name:        "log level",
			config:      "settings: {logLevel: loud}",
			configError: true,
		},
		{
			name:        "workers",
			config:      "workers: 0",
			configError: true,
		},
		{
			name:        "batch size",
			config:      "storage: {maxBatchSize: -1}",
			configError: true,
		},
		{
			name:        "database",
			config:      "storage: {database: ''}",
			configError: true,
		},
		{
			name:   "calibration length",
			config: "calibration: {frequencyValues: [1, 2], amplitudeValues: [1]}",
			target: amplitude.ErrCalibrationLengthMismatch,
		},
		{
			name:   "empty calibration",
			config: "calibration: {frequencyValues: [], amplitudeValues: []}",
			target: amplitude.ErrEmptyCalibration,
		},
		{
			name:   "period bounds",
			config: "warning: {period: {min: 3, max: 1}}",
		},
		{
			name:   "seconds",
			config: "warning: {period: {min: soon}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.config))
			require.Error(t, err)

			var configErr *ConfigError
			assert.Equal(t, tt.configError, errors.As(err, &configErr))
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestSeconds_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		input string
		want  Seconds
	}{
		{"1.5", 1.5},
		{"-2", -2},
		{"500ms", 0.5},
		{"-1m", -60},
		{"1m30s", 90},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s Seconds
			require.NoError(t, yaml.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Workers)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Example(t *testing.T) {
	c, err := LoadConfig(filepath.Join("..", "..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, amplitude.DefaultConfig(), c.Amplitude())
	assert.Equal(t, 4, c.Workers)
}
