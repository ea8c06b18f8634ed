package storage

import (
	_ "embed"
)

const (
	insertWaveformSQL = `
INSERT INTO waveforms (station,
                       channel,
                       start_time,
                       sample_rate_hz,
                       num_samples,
                       samples,
                       mean,
                       rms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectWaveformSQL = `
SELECT
    id,
    station,
    channel,
    start_time,
    sample_rate_hz,
    num_samples,
    samples,
    created_at
FROM waveforms
WHERE
    id = ?`

	selectWaveformsSQL = `
SELECT
    id,
    station,
    channel,
    start_time,
    sample_rate_hz,
    num_samples,
    created_at
FROM waveforms
ORDER BY id`

	insertDetectionSQL = `
INSERT INTO detections (waveform_id,
                        arrival_time,
                        pick_time,
                        phase)
VALUES (?, ?, ?, ?)`

	selectPendingDetectionsSQL = `
SELECT
    d.id,
    d.waveform_id,
    d.arrival_time,
    d.pick_time,
    d.phase
FROM detections d
    LEFT JOIN measurements m ON m.detection_id = d.id
WHERE
    m.id IS NULL
ORDER BY d.waveform_id, d.id`

	insertMeasurementSQL = `
INSERT INTO measurements (detection_id,
                          amplitude,
                          standard_deviation,
                          units,
                          period,
                          start_time,
                          scaled_amplitude,
                          peak,
                          peak_time,
                          trough,
                          trough_time,
                          in_warning,
                          warnings)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Filters are appended by the reader, see SqliteMeasurementReader.query
	selectMeasurementsSQL = `
SELECT
    m.id,
    m.created_at,
    w.station,
    w.channel,
    d.id,
    d.waveform_id,
    d.arrival_time,
    d.pick_time,
    d.phase,
    m.amplitude,
    m.standard_deviation,
    m.units,
    m.period,
    m.start_time,
    m.scaled_amplitude,
    m.peak,
    m.peak_time,
    m.trough,
    m.trough_time,
    m.warnings
FROM measurements m
    JOIN detections d ON d.id = m.detection_id
    JOIN waveforms w ON w.id = d.waveform_id
WHERE 1 = 1`
)

//go:embed schema.sql
var initSchemaSQL string
