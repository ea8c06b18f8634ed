package amplitude

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

func testWaveform() *waveform.Waveform {
	return &waveform.Waveform{
		StartTime:    100,
		SampleRateHz: 10,
		Samples:      []float64{0, 1, 2, 3, 2, 1, 0, -1, -2, -1},
	}
}

func TestCalculateAmplitudeMeasurementValue(t *testing.T) {
	got := CalculateAmplitudeMeasurementValue(4, 2, 4, 2)
	assert.Equal(t, Measurement{
		Amplitude: DoubleValue{Value: 1, StandardDeviation: 0, Units: Unitless},
		Period:    4,
		StartTime: 2,
	}, got)

	// trough before peak
	got = CalculateAmplitudeMeasurementValue(10, -10, 1.25, 1.0)
	assert.Equal(t, 10.0, got.Amplitude.Value)
	assert.Equal(t, 0.5, got.Period)
	assert.Equal(t, 1.0, got.StartTime)
}

func TestDetermineMinMaxForPeakTroughForWaveform(t *testing.T) {
	w := testWaveform()

	got := DetermineMinMaxForPeakTroughForWaveform(w, 100.3)
	assert.Equal(t, -2.0, got.Min)
	assert.InDelta(t, 100.8, got.MinTimeSecs, 1e-9)
	assert.Equal(t, 3.0, got.Max)
	assert.InDelta(t, 100.3, got.MaxTimeSecs, 1e-9)
}

func TestDetermineMinMaxForPeakTroughForWaveform_BeforeStart(t *testing.T) {
	got := DetermineMinMaxForPeakTroughForWaveform(testWaveform(), 50)
	assert.Equal(t, 0.0, got.Min)
	assert.Equal(t, 100.0, got.MinTimeSecs)
	assert.Equal(t, 3.0, got.Max)
	assert.InDelta(t, 100.3, got.MaxTimeSecs, 1e-9)
}

func TestDetermineMinMaxForPeakTroughForWaveform_Unavailable(t *testing.T) {
	assert.True(t, DetermineMinMaxForPeakTroughForWaveform(nil, 100).IsZero(), "nil waveform")
	assert.True(t, DetermineMinMaxForPeakTroughForWaveform(testWaveform(), 102).IsZero(), "time past the last sample")

	empty := &waveform.Waveform{StartTime: 100, SampleRateHz: 10}
	assert.True(t, DetermineMinMaxForPeakTroughForWaveform(empty, 100).IsZero(), "no samples")
}

func TestDetermineMinMaxForPeakTroughForSegments(t *testing.T) {
	first := &waveform.Waveform{StartTime: 0, SampleRateHz: 1, Samples: []float64{5, 5, 5}}
	second := testWaveform()
	segments := []*waveform.Waveform{first, second}

	got := DetermineMinMaxForPeakTroughForSegments(segments, 100.3)
	assert.Equal(t, DetermineMinMaxForPeakTroughForWaveform(second, 100.3), got)

	got = DetermineMinMaxForPeakTroughForSegments(segments, 1)
	assert.Equal(t, PeakTrough{MinTimeSecs: 0, Min: 5, MaxTimeSecs: 2, Max: 5}, got)

	assert.True(t, DetermineMinMaxForPeakTroughForSegments(segments, 50).IsZero(), "gap between segments")
	assert.True(t, DetermineMinMaxForPeakTroughForSegments(nil, 1).IsZero(), "no segments")
}
