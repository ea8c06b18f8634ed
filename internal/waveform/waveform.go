package waveform

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSampleRate is returned when a waveform has a non-positive sample rate
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrNoSamples is returned when a waveform carries no samples
	ErrNoSamples = errors.New("waveform has no samples")
)

// Waveform is a single evenly sampled channel segment. Sample i is located
// at StartTime + i/SampleRateHz, times are epoch seconds.
//
// The samples are owned by the caller and are never modified by this package
// or by the amplitude analysis.
type Waveform struct {
	StartTime    float64   `json:"startTime" yaml:"startTime"`       // Time of the first sample in epoch seconds
	SampleRateHz float64   `json:"sampleRateHz" yaml:"sampleRateHz"` // Samples per second
	Samples      []float64 `json:"samples" yaml:"samples"`           // Evenly spaced sample values
}

// Value is a single sample position within a waveform and its value.
type Value struct {
	Index int
	Value float64
}

// ValueForTime maps a time in epoch seconds onto the nearest sample.
//
// Times at or before StartTime resolve to index 0, anything later is rounded
// to the nearest sample. The index is not clamped: when it falls outside of
// the sample buffer the computed index is returned with ok set to false and
// a zero value. A nil waveform also reports ok as false.
func (w *Waveform) ValueForTime(timeSecs float64) (v Value, ok bool) {
	if w == nil {
		return Value{}, false
	}

	index := 0
	if timeSecs > w.StartTime {
		index = int(math.Round((timeSecs - w.StartTime) * w.SampleRateHz))
	}
	if index < 0 || index >= len(w.Samples) {
		return Value{Index: index}, false
	}

	return Value{Index: index, Value: w.Samples[index]}, true
}

// TimeForIndex converts a sample index into an absolute time in epoch seconds.
func (w *Waveform) TimeForIndex(index int) float64 {
	return w.StartTime + float64(index)/w.SampleRateHz
}

// EndTime returns the time of the last sample. For an empty waveform it
// equals StartTime.
func (w *Waveform) EndTime() float64 {
	if len(w.Samples) == 0 {
		return w.StartTime
	}
	return w.TimeForIndex(len(w.Samples) - 1)
}

// Duration returns the time span covered by the samples in seconds.
func (w *Waveform) Duration() float64 {
	return w.EndTime() - w.StartTime
}

// Contains reports whether timeSecs lies within the waveform span,
// boundaries included.
func (w *Waveform) Contains(timeSecs float64) bool {
	if w == nil || len(w.Samples) == 0 {
		return false
	}
	return timeSecs >= w.StartTime && timeSecs <= w.EndTime()
}

// Validate checks that the waveform can be sampled
func (w *Waveform) Validate() error {
	if w.SampleRateHz <= 0 || math.IsNaN(w.SampleRateHz) || math.IsInf(w.SampleRateHz, 0) {
		return fmt.Errorf("waveform: %w: %v given", ErrInvalidSampleRate, w.SampleRateHz)
	}
	if len(w.Samples) == 0 {
		return fmt.Errorf("waveform: %w", ErrNoSamples)
	}
	return nil
}
