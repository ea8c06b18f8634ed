package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
	"github.com/roman-kulish/seismic-amplitude/internal/storage"
	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

const maxBatchSize = 100

// WithMaxBatchSize sets the maximum number of measurements to store within
// a single database transaction.
func WithMaxBatchSize(size int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.maxBatchSize = size
	}
}

// WithWorkers sets the number of goroutines measuring detections
func WithWorkers(n int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// measurementStore is the part of storage.Store the orchestrator needs
type measurementStore interface {
	Waveform(ctx context.Context, id int64) (*storage.WaveformRecord, error)
	PendingDetections(ctx context.Context) ([]amplitude.Detection, error)
	StoreMeasurements(ctx context.Context, results []*amplitude.Result) error
}

// Stats summarises a single orchestrator run
type Stats struct {
	Pending  int // Detections without a measurement when the run started
	Measured int // Measurements stored
	Warnings int // Stored measurements flagged for review
	Failed   int // Detections that could not be measured
	Batches  int // Database transactions committed
}

type job struct {
	waveform  *waveform.Waveform
	detection amplitude.Detection
}

// Orchestrator measures every pending detection on a pool of workers and
// stores the results in batches from a single goroutine.
type Orchestrator struct {
	store    measurementStore
	measurer *amplitude.Measurer
	logger   *slog.Logger

	maxBatchSize int
	workers      int

	wg     sync.WaitGroup
	cancel context.CancelFunc
	failed atomic.Int64
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(store measurementStore, measurer *amplitude.Measurer, logger *slog.Logger, options ...func(*Orchestrator)) *Orchestrator {
	o := Orchestrator{
		store:        store,
		measurer:     measurer,
		logger:       logger.With(slog.String("component", "orchestrator")),
		maxBatchSize: maxBatchSize,
		workers:      runtime.NumCPU(),
	}

	for _, option := range options {
		option(&o)
	}

	o.maxBatchSize = max(o.maxBatchSize, 1)
	o.workers = max(o.workers, 1)

	return &o
}

// Run measures all pending detections. Detections that cannot be measured
// are logged and skipped; a storage failure stops the run.
func (o *Orchestrator) Run(ctx context.Context) (Stats, error) {
	detections, err := o.store.PendingDetections(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("loading pending detections: %w", err)
	}
	if len(detections) == 0 {
		o.logger.Info("no pending detections")
		return Stats{}, nil
	}

	buffer, err := NewResultBuffer(o.maxBatchSize, o.maxBatchSize)
	if err != nil {
		return Stats{}, err
	}

	parent := ctx
	ctx, o.cancel = context.WithCancel(ctx)
	defer o.cancel()

	o.failed.Store(0)
	startGate := make(chan struct{})
	jobs := make(chan job, o.workers)
	results := make(chan *amplitude.Result, o.workers)
	stored := make(chan storeOutcome, 1)

	go func() {
		stored <- o.handleResults(parent, buffer, results)
	}()

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go o.measure(ctx, jobs, results, startGate)
	}

	close(startGate) // Start the measuring goroutines

	o.dispatch(ctx, detections, jobs)
	o.wg.Wait()

	close(results) // Signal the storing goroutine to drain and stop
	outcome := <-stored

	stats := Stats{
		Pending:  len(detections),
		Measured: outcome.measured,
		Warnings: outcome.warnings,
		Failed:   int(o.failed.Load()),
		Batches:  outcome.batches,
	}

	if outcome.err != nil {
		return stats, outcome.err
	}
	if err = parent.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// dispatch loads each waveform once and queues its detections. Detections
// arrive ordered by waveform.
func (o *Orchestrator) dispatch(ctx context.Context, detections []amplitude.Detection, jobs chan<- job) {
	defer close(jobs)

	var w *waveform.Waveform
	waveformID := int64(-1)

	for _, d := range detections {
		if d.WaveformID != waveformID {
			waveformID = d.WaveformID
			w = nil

			rec, err := o.store.Waveform(ctx, waveformID)
			if err != nil {
				o.logger.Error("loading waveform",
					slog.Int64("waveformID", waveformID),
					slog.String("error", err.Error()),
				)
			} else {
				w = rec.Waveform
			}
		}

		if w == nil {
			o.failed.Add(1)
			continue
		}

		select {
		case jobs <- job{waveform: w, detection: d}:
		case <-ctx.Done():
			return
		}
	}
}

func (o *Orchestrator) measure(ctx context.Context, jobs <-chan job, results chan<- *amplitude.Result, startGate chan struct{}) {
	defer o.wg.Done()

	<-startGate

	for j := range jobs {
		r, err := o.measurer.Measure(j.waveform, j.detection)
		if err != nil {
			o.logger.Warn("skipping detection",
				slog.Int64("detectionID", j.detection.ID),
				slog.String("error", err.Error()),
			)
			o.failed.Add(1)
			continue
		}

		select {
		case results <- r:
		case <-ctx.Done():
			return
		}
	}
}

type storeOutcome struct {
	measured int
	warnings int
	batches  int
	err      error
}

// handleResults stores results as they arrive. Whatever is buffered when
// the run is cancelled is still written.
func (o *Orchestrator) handleResults(ctx context.Context, buffer *ResultBuffer, results <-chan *amplitude.Result) storeOutcome {
	var outcome storeOutcome

	flush := func(ctx context.Context, batch []*amplitude.Result) {
		if outcome.err != nil || len(batch) == 0 {
			return
		}
		if err := o.store.StoreMeasurements(ctx, batch); err != nil {
			outcome.err = fmt.Errorf("storing measurements: %w", err)
			o.logger.Error(outcome.err.Error())
			o.cancel() // signal to other goroutines about fatal
			return
		}

		outcome.batches++
		outcome.measured += len(batch)
		for _, r := range batch {
			if r.InWarning() {
				outcome.warnings++
			}
		}
		o.logger.Debug("stored measurements", slog.Int("count", len(batch)))
	}

	for r := range results {
		if err := buffer.Insert(r); err != nil {
			o.logger.Error(err.Error())
			continue
		}
		if buffer.IsFull() && ctx.Err() == nil {
			flush(ctx, buffer.Flush())
		}
	}

	flush(context.WithoutCancel(ctx), buffer.DrainAll())
	return outcome
}
