package amplitude

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

func TestMeasurer_Measure(t *testing.T) {
	m, err := NewMeasurer(DefaultConfig())
	require.NoError(t, err)

	w := &waveform.Waveform{
		StartTime:    0,
		SampleRateHz: 10,
		Samples:      []float64{0, 1, 2, 3, 2, 1, 0, -1, -2, -1},
	}
	d := Detection{ID: 7, WaveformID: 1, ArrivalTime: 0, PickTime: 0.3}

	r, err := m.Measure(w, d)
	require.NoError(t, err)

	assert.Equal(t, d, r.Detection)
	assert.Equal(t, 3.0, r.PeakTrough.Max)
	assert.Equal(t, -2.0, r.PeakTrough.Min)

	assert.InDelta(t, 2.5, r.Measurement.Amplitude.Value, 1e-12)
	assert.InDelta(t, 1.0, r.Measurement.Period, 1e-9)
	assert.InDelta(t, 0.3, r.Measurement.StartTime, 1e-9)
	assert.Equal(t, Unitless, r.Measurement.Amplitude.Units)

	// a 1s period sits on the nominal calibration period
	assert.InDelta(t, 2.5, r.Scaled.Amplitude.Value, 1e-12)

	// the peak comes before the trough on a falling edge
	assert.Equal(t, []WarningReason{WarningPeakBeforeTrough}, r.Warnings)
	assert.True(t, r.InWarning())
}

func TestMeasurer_MeasureUnavailable(t *testing.T) {
	m, err := NewMeasurer(DefaultConfig())
	require.NoError(t, err)

	w := &waveform.Waveform{StartTime: 0, SampleRateHz: 10, Samples: []float64{1, 2, 1}}

	_, err = m.Measure(w, Detection{PickTime: 5})
	assert.ErrorIs(t, err, ErrNoPeakTrough)

	_, err = m.Measure(nil, Detection{})
	assert.ErrorIs(t, err, ErrNoPeakTrough)
}

func TestNewMeasurer_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration.FrequencyValues = cfg.Calibration.FrequencyValues[:2]

	_, err := NewMeasurer(cfg)
	assert.ErrorIs(t, err, ErrCalibrationLengthMismatch)
}

func TestMeasurer_Concurrent(t *testing.T) {
	m, err := NewMeasurer(DefaultConfig())
	require.NoError(t, err)

	w := &waveform.Waveform{
		StartTime:    0,
		SampleRateHz: 20,
		Samples:      []float64{0, -1, -3, -1, 2, 4, 2, 0, -2, -1, 0, 1},
	}
	expected, err := m.Measure(w, Detection{ArrivalTime: 0, PickTime: 0.2})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := m.Measure(w, Detection{ArrivalTime: 0, PickTime: 0.2})
			if assert.NoError(t, err) {
				assert.Equal(t, expected, r)
			}
		}()
	}
	wg.Wait()
}
