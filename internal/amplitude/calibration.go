package amplitude

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyCalibration is returned when a calibration table has no entries
	ErrEmptyCalibration = errors.New("calibration table is empty")

	// ErrCalibrationLengthMismatch is returned when the frequency and amplitude
	// tables of a calibration curve differ in length
	ErrCalibrationLengthMismatch = errors.New("calibration tables differ in length")
)

// CalibrationError describes a malformed calibration curve
type CalibrationError struct {
	Frequencies int // Number of frequency values
	Amplitudes  int // Number of amplitude values
	err         error
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("amplitude: %s: %d frequency values, %d amplitude values", e.err, e.Frequencies, e.Amplitudes)
}

func (e *CalibrationError) Unwrap() error {
	return e.err
}

// CalibrationCurve is a frequency to reference amplitude response table.
// Both tables are read only and must be of the same, non-zero length.
type CalibrationCurve struct {
	FrequencyValues []float64 `yaml:"frequencyValues" json:"frequencyValues"` // Hz
	AmplitudeValues []float64 `yaml:"amplitudeValues" json:"amplitudeValues"` // Reference response at each frequency
}

// Validate checks the shape of the curve
func (c CalibrationCurve) Validate() error {
	nf, na := len(c.FrequencyValues), len(c.AmplitudeValues)
	switch {
	case nf == 0 || na == 0:
		return &CalibrationError{Frequencies: nf, Amplitudes: na, err: ErrEmptyCalibration}
	case nf != na:
		return &CalibrationError{Frequencies: nf, Amplitudes: na, err: ErrCalibrationLengthMismatch}
	}
	return nil
}

// PeriodValues returns the period in seconds for every tabulated frequency
func (c CalibrationCurve) PeriodValues() []float64 {
	periods := make([]float64, len(c.FrequencyValues))
	for i, f := range c.FrequencyValues {
		periods[i] = 1 / f
	}
	return periods
}

// FindClosestCorrespondingValue returns the entry of table nearest to
// target. Ties go to the entry encountered first.
func FindClosestCorrespondingValue(target float64, table []float64) (index int, value float64, err error) {
	if len(table) == 0 {
		return 0, 0, ErrEmptyCalibration
	}

	index, value = 0, table[0]
	best := math.Abs(table[0] - target)
	for i, v := range table[1:] {
		if d := math.Abs(v - target); d < best {
			index, value, best = i+1, v, d
		}
	}
	return index, value, nil
}

// ScaleAmplitudeForPeakTrough normalises amplitude against the calibration
// curve. The reference amplitude tabulated closest to period is divided by
// the one closest to nominalCalibrationPeriod and amplitude is divided by
// that ratio.
func ScaleAmplitudeForPeakTrough(amplitude, period, nominalCalibrationPeriod float64, curve CalibrationCurve) (float64, error) {
	if err := curve.Validate(); err != nil {
		return 0, err
	}

	periods := curve.PeriodValues()

	calculated, _, err := FindClosestCorrespondingValue(period, periods)
	if err != nil {
		return 0, err
	}
	calibration, _, err := FindClosestCorrespondingValue(nominalCalibrationPeriod, periods)
	if err != nil {
		return 0, err
	}

	normalized := curve.AmplitudeValues[calculated] / curve.AmplitudeValues[calibration]
	return amplitude / normalized, nil
}

// ScaleAmplitudeMeasurementValue returns a copy of m with its amplitude
// scaled against the default calibration curve and nominal period.
//
// Scaling is not idempotent: applying it to its own output scales again.
func ScaleAmplitudeMeasurementValue(m Measurement) (Measurement, error) {
	return DefaultConfig().ScaleMeasurement(m)
}
