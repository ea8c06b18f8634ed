package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"
	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

// Store provides an interface for managing waveform, signal detection and
// amplitude measurement storage. All operations that write to the database
// should be considered atomic.
type Store interface {
	// StoreWaveform saves a channel segment and returns its unique identifier.
	// Sample statistics are computed and stored along with the samples.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - station: Station code (e.g., "ASAR")
	//   - channel: Channel code (e.g., "SHZ")
	//   - w: Waveform to store, must be valid
	//
	// Returns:
	//   - waveformID: Unique identifier for the stored waveform
	//   - error: If storage fails or context is cancelled
	StoreWaveform(ctx context.Context, station, channel string, w *waveform.Waveform) (waveformID int64, err error)

	// Waveform retrieves a stored waveform, samples included.
	Waveform(ctx context.Context, id int64) (*WaveformRecord, error)

	// Waveforms lists all stored waveforms ordered by ID, without samples.
	Waveforms(ctx context.Context) ([]*WaveformRecord, error)

	// StoreDetection saves a signal detection picked on a stored waveform.
	// The ID of the detection passed in is ignored.
	//
	// Returns:
	//   - detectionID: Unique identifier for the stored detection
	//   - error: If storage fails, the waveform does not exist or context is cancelled
	StoreDetection(ctx context.Context, d amplitude.Detection) (detectionID int64, err error)

	// PendingDetections returns all detections that have no measurement yet,
	// ordered by waveform.
	PendingDetections(ctx context.Context) ([]amplitude.Detection, error)

	// StoreMeasurements saves measurement results in a single atomic transaction.
	// A detection can be measured only once.
	StoreMeasurements(ctx context.Context, results []*amplitude.Result) error

	// ReadMeasurements creates a reader over stored measurements. The reader
	// must be closed after use.
	ReadMeasurements(ctx context.Context, opts ...ReaderOption) (MeasurementReader, error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	Close() error
}
