package amplitude

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

const (
	// DefaultNominalCalibrationPeriod is the reference period, in seconds,
	// all scaled amplitudes are normalised to
	DefaultNominalCalibrationPeriod = 1.0

	DefaultMinPeriod   = 0.1 // seconds
	DefaultMaxPeriod   = 2.0 // seconds
	DefaultStartOffset = 0.0 // seconds after arrival
	DefaultEndOffset   = 5.0 // seconds after arrival
)

// Short period displacement response, normalised to 1 at 1 Hz
var (
	defaultFrequencyValues = []float64{0.3, 0.5, 0.7, 1.0, 1.5, 2.0, 3.0, 4.0, 5.0, 7.0, 10.0}
	defaultAmplitudeValues = []float64{0.08, 0.3, 0.62, 1.0, 1.32, 1.41, 1.25, 1.0, 0.78, 0.48, 0.25}
)

// Config groups the calibration and warning settings used by the scaler and
// the validator
type Config struct {
	NominalCalibrationPeriod float64          `yaml:"nominalPeriod" json:"nominalPeriod"`
	Calibration              CalibrationCurve `yaml:"calibration" json:"calibration"`
	Warning                  WarningBounds    `yaml:"warning" json:"warning"`
}

// DefaultCalibrationCurve returns a copy of the built-in response curve
func DefaultCalibrationCurve() CalibrationCurve {
	return CalibrationCurve{
		FrequencyValues: slices.Clone(defaultFrequencyValues),
		AmplitudeValues: slices.Clone(defaultAmplitudeValues),
	}
}

// DefaultWarningBounds returns the built-in warning thresholds
func DefaultWarningBounds() WarningBounds {
	return WarningBounds{
		Period: PeriodBounds{Min: DefaultMinPeriod, Max: DefaultMaxPeriod},
		Window: WindowBounds{StartOffset: DefaultStartOffset, EndOffset: DefaultEndOffset},
	}
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		NominalCalibrationPeriod: DefaultNominalCalibrationPeriod,
		Calibration:              DefaultCalibrationCurve(),
		Warning:                  DefaultWarningBounds(),
	}
}

// Validate checks that the configuration can be used for scaling. It is
// stricter than the scaler itself: tabulated frequencies must be positive
// and reference amplitudes non-zero.
func (c Config) Validate() error {
	if c.NominalCalibrationPeriod <= 0 || math.IsNaN(c.NominalCalibrationPeriod) {
		return fmt.Errorf("amplitude.Config: nominal calibration period must be positive: %v given", c.NominalCalibrationPeriod)
	}
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	for i, f := range c.Calibration.FrequencyValues {
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("amplitude.Config: frequency value %d must be positive and finite: %v given", i, f)
		}
	}
	for i, a := range c.Calibration.AmplitudeValues {
		if a == 0 || math.IsNaN(a) {
			return fmt.Errorf("amplitude.Config: amplitude value %d must be non-zero: %v given", i, a)
		}
	}
	if c.Warning.Period.Min > c.Warning.Period.Max {
		return errors.New("amplitude.Config: warning period min is greater than max")
	}
	if c.Warning.Window.StartOffset > c.Warning.Window.EndOffset {
		return errors.New("amplitude.Config: warning window start offset is after end offset")
	}
	return nil
}

// ScaleAmplitude scales amplitude measured at period using the configured curve
func (c Config) ScaleAmplitude(amplitude, period float64) (float64, error) {
	return ScaleAmplitudeForPeakTrough(amplitude, period, c.NominalCalibrationPeriod, c.Calibration)
}

// ScaleMeasurement returns a copy of m with the amplitude value scaled using
// the configured curve. Units and standard deviation are kept.
func (c Config) ScaleMeasurement(m Measurement) (Measurement, error) {
	value, err := c.ScaleAmplitude(m.Amplitude.Value, m.Period)
	if err != nil {
		return Measurement{}, fmt.Errorf("scaling amplitude measurement: %w", err)
	}

	m.Amplitude.Value = value
	return m, nil
}

// IsPeakTroughInWarning checks a selection against the configured bounds
func (c Config) IsPeakTroughInWarning(arrivalTime, period, troughTime, peakTime float64) bool {
	return IsPeakTroughInWarning(arrivalTime, period, troughTime, peakTime, c.Warning)
}
