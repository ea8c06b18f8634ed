package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// MeasurementReader provides an iterator-based interface for reading stored
// measurements with optional filtering.
type MeasurementReader interface {
	// Next advances the iterator and returns true if there is another
	// measurement to read, false when the iteration is complete or if an
	// error occurred.
	Next(context.Context) bool

	// Current returns the current measurement in the iteration.
	// If called after Next() returns false, the behavior is undefined.
	Current() *MeasurementRecord

	// Error returns any error that occurred during iteration.
	// If Next() returns false, Error() should be checked to distinguish
	// between end of data and an error condition.
	Error() error

	// Close releases any resources associated with the reader.
	// After Close is called, the reader should not be used.
	Close() error
}

// ReaderOption configures a MeasurementReader with specific filtering criteria.
type ReaderOption func(*SqliteMeasurementReader)

// WithStartTime excludes measurements starting before t (epoch seconds).
func WithStartTime(t float64) ReaderOption {
	return func(r *SqliteMeasurementReader) {
		r.startTime = &t
	}
}

// WithEndTime excludes measurements starting after t (epoch seconds).
func WithEndTime(t float64) ReaderOption {
	return func(r *SqliteMeasurementReader) {
		r.endTime = &t
	}
}

// WithTimeRange sets both start and end time filters.
// This is a convenience function equivalent to applying both WithStartTime
// and WithEndTime.
func WithTimeRange(startTime, endTime float64) ReaderOption {
	return func(r *SqliteMeasurementReader) {
		r.startTime = &startTime
		r.endTime = &endTime
	}
}

// WithWaveform limits the reader to measurements taken on a single waveform.
func WithWaveform(id int64) ReaderOption {
	return func(r *SqliteMeasurementReader) {
		r.waveformID = &id
	}
}

// WithWarningsOnly limits the reader to measurements flagged for review.
func WithWarningsOnly() ReaderOption {
	return func(r *SqliteMeasurementReader) {
		r.warningsOnly = true
	}
}

// SqliteMeasurementReader implements MeasurementReader for SQLite database backend.
type SqliteMeasurementReader struct {
	db *sql.DB

	startTime    *float64 // Optional start of time range filter
	endTime      *float64 // Optional end of time range filter
	waveformID   *int64   // Optional waveform filter
	warningsOnly bool

	current *MeasurementRecord
	rows    *sql.Rows
	err     error
}

func newSqliteMeasurementReader(ctx context.Context, db *sql.DB, opts ...ReaderOption) (*SqliteMeasurementReader, error) {
	if db == nil {
		return nil, errors.New("database connection required")
	}

	r := &SqliteMeasurementReader{db: db}
	for _, opt := range opts {
		opt(r)
	}

	if r.startTime != nil && r.endTime != nil && *r.startTime > *r.endTime {
		return nil, fmt.Errorf("start time %f is after end time %f", *r.startTime, *r.endTime)
	}

	query, args := r.query()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}

	r.rows = rows
	return r, nil
}

func (r *SqliteMeasurementReader) query() (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(selectMeasurementsSQL)

	if r.startTime != nil {
		sb.WriteString("\n    AND m.start_time >= ?")
		args = append(args, *r.startTime)
	}
	if r.endTime != nil {
		sb.WriteString("\n    AND m.start_time <= ?")
		args = append(args, *r.endTime)
	}
	if r.waveformID != nil {
		sb.WriteString("\n    AND d.waveform_id = ?")
		args = append(args, *r.waveformID)
	}
	if r.warningsOnly {
		sb.WriteString("\n    AND m.in_warning = 1")
	}

	sb.WriteString("\nORDER BY m.start_time, m.id")
	return sb.String(), args
}

func (r *SqliteMeasurementReader) scan() (*MeasurementRecord, error) {
	var rec MeasurementRecord
	var det detectionData
	var m measurementData

	err := r.rows.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.Station,
		&rec.Channel,
		&det.ID,
		&det.WaveformID,
		&det.ArrivalTime,
		&det.PickTime,
		&det.Phase,
		&m.Amplitude,
		&m.StandardDeviation,
		&m.Units,
		&m.Period,
		&m.StartTime,
		&m.ScaledAmplitude,
		&m.Peak,
		&m.PeakTime,
		&m.Trough,
		&m.TroughTime,
		&m.Warnings,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning measurement: %w", err)
	}

	m.DetectionID = det.ID
	rec.Result = m.toResult(det.toDetection())
	return &rec, nil
}

func (r *SqliteMeasurementReader) Next(ctx context.Context) bool {
	if r.err != nil || r.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}

	if !r.rows.Next() {
		r.current = nil
		return false
	}

	r.current, r.err = r.scan()
	return r.err == nil
}

func (r *SqliteMeasurementReader) Current() *MeasurementRecord {
	return r.current
}

func (r *SqliteMeasurementReader) Error() error {
	if r.err != nil {
		return r.err
	}
	if r.rows != nil {
		return r.rows.Err()
	}
	return nil
}

func (r *SqliteMeasurementReader) Close() error {
	if r.rows != nil {
		err := r.rows.Close()
		r.current = nil
		r.rows = nil
		return err
	}
	return nil
}
