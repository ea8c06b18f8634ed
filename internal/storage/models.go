package storage

import (
	"database/sql"
	"time"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

// WaveformRecord is a stored channel segment. Waveform.Samples is only
// populated when a single waveform is fetched.
type WaveformRecord struct {
	ID         int64              `json:"id"`
	Station    string             `json:"station"`
	Channel    string             `json:"channel"`
	NumSamples int                `json:"numSamples"`
	CreatedAt  time.Time          `json:"createdAt"`
	Waveform   *waveform.Waveform `json:"waveform"`
}

// MeasurementRecord is a stored measurement together with the channel it was taken on
type MeasurementRecord struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Station   string           `json:"station"`
	Channel   string           `json:"channel"`
	Result    amplitude.Result `json:"result"`
}

type detectionData struct {
	ID          int64
	WaveformID  int64
	ArrivalTime float64
	PickTime    float64
	Phase       sql.NullString
}

type measurementData struct {
	DetectionID       int64
	Amplitude         float64
	StandardDeviation float64
	Units             string
	Period            float64
	StartTime         float64
	ScaledAmplitude   float64
	Peak              float64
	PeakTime          float64
	Trough            float64
	TroughTime        float64
	InWarning         bool
	Warnings          sql.NullString
}
