package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

const (
	writeDSNOptions = "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000"
	readDSNOptions  = "mode=ro&_foreign_keys=on&_busy_timeout=5000"
)

var _ Store = (*SqliteStore)(nil)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new store backed by the Sqlite database at dbPath.
// Connections are opened lazily, the schema is created with the first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, writeDSNOptions))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // single writer

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		// read-only connections need the database and its schema to exist
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}

		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, readDSNOptions))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) StoreWaveform(ctx context.Context, station, channel string, w *waveform.Waveform) (waveformID int64, err error) {
	if w == nil {
		return 0, errors.New("cannot store nil waveform")
	}
	if err = w.Validate(); err != nil {
		return 0, err
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertWaveformSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	summary := w.Summary()
	result, err := stmt.ExecContext(ctx,
		station,
		channel,
		w.StartTime,
		w.SampleRateHz,
		len(w.Samples),
		encodeSamples(w.Samples),
		summary.Mean,
		summary.RMS,
	)
	if err != nil {
		err = fmt.Errorf("inserting waveform: %w", err)
		return
	}

	waveformID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting waveform ID: %w", err)
	}
	return
}

func (s *SqliteStore) Waveform(ctx context.Context, id int64) (record *WaveformRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectWaveformSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var rec WaveformRecord
	var w waveform.Waveform
	var samples []byte
	if err = stmt.QueryRowContext(ctx, id).Scan(
		&rec.ID,
		&rec.Station,
		&rec.Channel,
		&w.StartTime,
		&w.SampleRateHz,
		&rec.NumSamples,
		&samples,
		&rec.CreatedAt,
	); err != nil {
		err = fmt.Errorf("scanning waveform: %w", err)
		return
	}

	if w.Samples, err = decodeSamples(samples, rec.NumSamples); err != nil {
		err = fmt.Errorf("waveform %d: %w", id, err)
		return
	}

	rec.Waveform = &w
	return &rec, nil
}

func (s *SqliteStore) Waveforms(ctx context.Context) (records []*WaveformRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectWaveformsSQL)
	if err != nil {
		err = fmt.Errorf("querying waveforms: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec WaveformRecord
		var w waveform.Waveform
		if err = rows.Scan(&rec.ID, &rec.Station, &rec.Channel, &w.StartTime, &w.SampleRateHz, &rec.NumSamples, &rec.CreatedAt); err != nil {
			err = fmt.Errorf("scanning waveform: %w", err)
			return
		}
		rec.Waveform = &w
		records = append(records, &rec)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreDetection(ctx context.Context, d amplitude.Detection) (detectionID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertDetectionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	data := toDetectionData(d)
	result, err := stmt.ExecContext(ctx, data.WaveformID, data.ArrivalTime, data.PickTime, data.Phase)
	if err != nil {
		err = fmt.Errorf("inserting detection: %w", err)
		return
	}

	detectionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting detection ID: %w", err)
	}
	return
}

func (s *SqliteStore) PendingDetections(ctx context.Context) (detections []amplitude.Detection, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectPendingDetectionsSQL)
	if err != nil {
		err = fmt.Errorf("querying detections: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data detectionData
		if err = rows.Scan(&data.ID, &data.WaveformID, &data.ArrivalTime, &data.PickTime, &data.Phase); err != nil {
			err = fmt.Errorf("scanning detection: %w", err)
			return
		}
		detections = append(detections, data.toDetection())
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreMeasurements(ctx context.Context, results []*amplitude.Result) (err error) {
	if len(results) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertMeasurementSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, r := range results {
		data := toMeasurementData(r)
		if _, err = stmt.ExecContext(ctx,
			data.DetectionID,
			data.Amplitude,
			data.StandardDeviation,
			data.Units,
			data.Period,
			data.StartTime,
			data.ScaledAmplitude,
			data.Peak,
			data.PeakTime,
			data.Trough,
			data.TroughTime,
			data.InWarning,
			data.Warnings,
		); err != nil {
			return fmt.Errorf("inserting measurement for detection %d: %w", data.DetectionID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ReadMeasurements creates a new MeasurementReader over stored measurements,
// ordered by measurement start time. The reader supports time range, waveform
// and warning filters (WithStartTime, WithEndTime, WithTimeRange, WithWaveform,
// WithWarningsOnly).
//
// The returned reader must be closed after use to release database resources.
// Each reader instance should only be used from a single goroutine.
func (s *SqliteStore) ReadMeasurements(ctx context.Context, opts ...ReaderOption) (MeasurementReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	reader, err := newSqliteMeasurementReader(ctx, db, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return reader, nil
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
