package amplitude

import (
	"math"

	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

// CalculateAmplitudeMeasurementValue builds a measurement out of a peak and
// a trough. The amplitude is half the peak to trough difference, the period
// twice the time between them.
func CalculateAmplitudeMeasurementValue(peakAmplitude, troughAmplitude, peakTime, troughTime float64) Measurement {
	return Measurement{
		Amplitude: DoubleValue{
			Value:             (peakAmplitude - troughAmplitude) / 2,
			StandardDeviation: 0,
			Units:             Unitless,
		},
		Period:    2 * math.Abs(peakTime-troughTime),
		StartTime: math.Min(peakTime, troughTime),
	}
}

// DetermineMinMaxForPeakTroughForWaveform resolves timeSecs to a sample,
// searches the extrema around it and reports them in absolute time.
// A nil waveform or a time that does not resolve to a sample yields the zero
// PeakTrough.
func DetermineMinMaxForPeakTroughForWaveform(w *waveform.Waveform, timeSecs float64) PeakTrough {
	start, ok := w.ValueForTime(timeSecs)
	if !ok {
		return PeakTrough{}
	}

	mm := FindMinMaxAmplitudeForPeakTrough(start.Index, w.Samples)
	return PeakTrough{
		MinTimeSecs: w.TimeForIndex(mm.Min.Index),
		Min:         mm.Min.Value,
		MaxTimeSecs: w.TimeForIndex(mm.Max.Index),
		Max:         mm.Max.Value,
	}
}

// DetermineMinMaxForPeakTroughForSegments runs the search on the first
// segment that covers timeSecs. The zero PeakTrough is returned when no
// segment does.
func DetermineMinMaxForPeakTroughForSegments(segments []*waveform.Waveform, timeSecs float64) PeakTrough {
	for _, w := range segments {
		if w.Contains(timeSecs) {
			return DetermineMinMaxForPeakTroughForWaveform(w, timeSecs)
		}
	}
	return PeakTrough{}
}
