package amplitude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultNominalCalibrationPeriod, cfg.NominalCalibrationPeriod)
	assert.Equal(t, DefaultWarningBounds(), cfg.Warning)
	assert.Len(t, cfg.Calibration.AmplitudeValues, len(cfg.Calibration.FrequencyValues))

	// defaults are handed out as copies
	cfg.Calibration.AmplitudeValues[0] = 42
	assert.NotEqual(t, 42.0, DefaultConfig().Calibration.AmplitudeValues[0])
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero nominal period", func(c *Config) { c.NominalCalibrationPeriod = 0 }},
		{"empty calibration", func(c *Config) { c.Calibration = CalibrationCurve{} }},
		{"mismatched calibration", func(c *Config) { c.Calibration.AmplitudeValues = c.Calibration.AmplitudeValues[1:] }},
		{"zero frequency", func(c *Config) { c.Calibration.FrequencyValues[2] = 0 }},
		{"zero amplitude", func(c *Config) { c.Calibration.AmplitudeValues[2] = 0 }},
		{"inverted period bounds", func(c *Config) { c.Warning.Period = PeriodBounds{Min: 3, Max: 1} }},
		{"inverted window", func(c *Config) { c.Warning.Window = WindowBounds{StartOffset: 2, EndOffset: -1} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_ScaleMeasurement(t *testing.T) {
	cfg := Config{
		NominalCalibrationPeriod: 1,
		Calibration: CalibrationCurve{
			FrequencyValues: []float64{1, 2},
			AmplitudeValues: []float64{2, 4},
		},
	}

	m := Measurement{
		Amplitude: DoubleValue{Value: 8, Units: Nanometers},
		Period:    0.5,
		StartTime: 10,
	}

	scaled, err := cfg.ScaleMeasurement(m)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, scaled.Amplitude.Value, 1e-12)
	assert.Equal(t, Nanometers, scaled.Amplitude.Units)

	cfg.Calibration.AmplitudeValues = nil
	_, err = cfg.ScaleMeasurement(m)
	assert.ErrorIs(t, err, ErrEmptyCalibration)
}

func TestUnits_IsValid(t *testing.T) {
	for _, u := range []Units{Unitless, Counts, Nanometers, NanometersPerSecond} {
		assert.True(t, u.IsValid(), u.String())
	}
	assert.False(t, Units("FURLONGS").IsValid())
}
