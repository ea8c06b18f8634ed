package storage

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// rollbackWithError ignores sql.ErrTxDone so it can be deferred ahead of Commit
func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

// encodeSamples packs samples as little-endian IEEE 754 doubles
func encodeSamples(samples []float64) []byte {
	p := make([]byte, len(samples)*8)
	for i, v := range samples {
		binary.LittleEndian.PutUint64(p[i*8:], math.Float64bits(v))
	}
	return p
}

func decodeSamples(p []byte, numSamples int) ([]float64, error) {
	if len(p) != numSamples*8 {
		return nil, fmt.Errorf("corrupted samples: %d bytes for %d samples", len(p), numSamples)
	}
	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(p[i*8:]))
	}
	return samples, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toDetectionData(d amplitude.Detection) detectionData {
	return detectionData{
		ID:          d.ID,
		WaveformID:  d.WaveformID,
		ArrivalTime: d.ArrivalTime,
		PickTime:    d.PickTime,
		Phase:       toNullString(d.Phase),
	}
}

func (d detectionData) toDetection() amplitude.Detection {
	return amplitude.Detection{
		ID:          d.ID,
		WaveformID:  d.WaveformID,
		ArrivalTime: d.ArrivalTime,
		PickTime:    d.PickTime,
		Phase:       d.Phase.String,
	}
}

func toMeasurementData(r *amplitude.Result) measurementData {
	return measurementData{
		DetectionID:       r.Detection.ID,
		Amplitude:         r.Measurement.Amplitude.Value,
		StandardDeviation: r.Measurement.Amplitude.StandardDeviation,
		Units:             r.Measurement.Amplitude.Units.String(),
		Period:            r.Measurement.Period,
		StartTime:         r.Measurement.StartTime,
		ScaledAmplitude:   r.Scaled.Amplitude.Value,
		Peak:              r.PeakTrough.Max,
		PeakTime:          r.PeakTrough.MaxTimeSecs,
		Trough:            r.PeakTrough.Min,
		TroughTime:        r.PeakTrough.MinTimeSecs,
		InWarning:         r.InWarning(),
		Warnings:          toNullString(joinWarnings(r.Warnings)),
	}
}

func (m measurementData) toResult(d amplitude.Detection) amplitude.Result {
	raw := amplitude.Measurement{
		Amplitude: amplitude.DoubleValue{
			Value:             m.Amplitude,
			StandardDeviation: m.StandardDeviation,
			Units:             amplitude.Units(m.Units),
		},
		Period:    m.Period,
		StartTime: m.StartTime,
	}

	scaled := raw
	scaled.Amplitude.Value = m.ScaledAmplitude

	return amplitude.Result{
		Detection: d,
		PeakTrough: amplitude.PeakTrough{
			MinTimeSecs: m.TroughTime,
			Min:         m.Trough,
			MaxTimeSecs: m.PeakTime,
			Max:         m.Peak,
		},
		Measurement: raw,
		Scaled:      scaled,
		Warnings:    splitWarnings(m.Warnings.String),
	}
}

func joinWarnings(reasons []amplitude.WarningReason) string {
	s := make([]string, len(reasons))
	for i, r := range reasons {
		s[i] = r.String()
	}
	return strings.Join(s, ",")
}

func splitWarnings(s string) []amplitude.WarningReason {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	reasons := make([]amplitude.WarningReason, len(parts))
	for i, p := range parts {
		reasons[i] = amplitude.WarningReason(p)
	}
	return reasons
}
