package amplitude

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

// ErrNoPeakTrough is returned when the pick time of a detection does not
// resolve to a sample of the waveform
var ErrNoPeakTrough = errors.New("no peak/trough available")

// WithLogger sets the logger for the measurer
func WithLogger(logger *slog.Logger) func(m *Measurer) {
	return func(m *Measurer) {
		m.logger = logger.With(slog.String("component", "measurer"))
	}
}

// Measurer runs the full peak/trough pipeline for signal detections: extrema
// search around the pick, measurement, calibration scaling and warning
// checks. It holds no mutable state and is safe for concurrent use.
type Measurer struct {
	config Config
	logger *slog.Logger
}

// NewMeasurer creates a new Measurer with a discard logger. The configuration
// is validated up front so that a malformed calibration fails fast.
func NewMeasurer(config Config, options ...func(m *Measurer)) (*Measurer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid measurer configuration: %w", err)
	}

	m := Measurer{
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&m)
	}

	return &m, nil
}

// Config returns the configuration the measurer was created with
func (m *Measurer) Config() Config {
	return m.config
}

// Measure measures the amplitude of detection d on waveform w. The peak is
// the maximum found around the pick time and the trough the minimum.
func (m *Measurer) Measure(w *waveform.Waveform, d Detection) (*Result, error) {
	if _, ok := w.ValueForTime(d.PickTime); !ok {
		return nil, fmt.Errorf("detection %d: %w at %f", d.ID, ErrNoPeakTrough, d.PickTime)
	}

	pt := DetermineMinMaxForPeakTroughForWaveform(w, d.PickTime)
	raw := CalculateAmplitudeMeasurementValue(pt.Max, pt.Min, pt.MaxTimeSecs, pt.MinTimeSecs)

	scaled, err := m.config.ScaleMeasurement(raw)
	if err != nil {
		return nil, fmt.Errorf("detection %d: %w", d.ID, err)
	}

	result := Result{
		Detection:   d,
		PeakTrough:  pt,
		Measurement: raw,
		Scaled:      scaled,
		Warnings:    m.config.Warning.Reasons(d.ArrivalTime, raw.Period, pt.MinTimeSecs, pt.MaxTimeSecs),
	}

	m.logger.Debug("measured detection",
		slog.Int64("detectionID", d.ID),
		slog.Float64("amplitude", raw.Amplitude.Value),
		slog.Float64("scaledAmplitude", scaled.Amplitude.Value),
		slog.Float64("period", raw.Period),
		slog.Bool("inWarning", result.InWarning()),
	)

	return &result, nil
}
