package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
	"github.com/roman-kulish/seismic-amplitude/internal/storage"
	"github.com/roman-kulish/seismic-amplitude/internal/waveform"
)

const (
	storageDir = "data"
)

// Options controls what a single invocation does besides measuring
type Options struct {
	Imports      []string  // Waveform files to import before measuring
	List         bool      // Print stored measurements after the run
	WarningsOnly bool      // Print only measurements flagged for review
	Output       io.Writer // Where the listing goes, defaults to os.Stdout
}

func Run(ctx context.Context, config *Config, logger *slog.Logger, opts Options) (err error) {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	for _, path := range opts.Imports {
		if err = importFile(ctx, store, path, logger); err != nil {
			return fmt.Errorf("failed to import waveform: %w", err)
		}
	}

	measurer, err := amplitude.NewMeasurer(config.Amplitude(), amplitude.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create measurer: %w", err)
	}

	orchestrator := NewOrchestrator(store, measurer, logger,
		WithWorkers(config.Workers),
		WithMaxBatchSize(config.Storage.MaxBatchSize),
	)

	stats, err := orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to measure detections: %w", err)
	}

	logger.Info("measurement run complete",
		slog.Int("pending", stats.Pending),
		slog.Int("measured", stats.Measured),
		slog.Int("warnings", stats.Warnings),
		slog.Int("failed", stats.Failed),
		slog.Int("batches", stats.Batches),
	)

	if opts.List || opts.WarningsOnly {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}

		var readerOpts []storage.ReaderOption
		if opts.WarningsOnly {
			readerOpts = append(readerOpts, storage.WithWarningsOnly())
		}
		if err = listMeasurements(ctx, store, out, readerOpts...); err != nil {
			return fmt.Errorf("failed to list measurements: %w", err)
		}
	}

	return nil
}

func importFile(ctx context.Context, store storage.Store, path string, logger *slog.Logger) error {
	f, err := waveform.LoadFile(path)
	if err != nil {
		return err
	}

	waveformID, err := store.StoreWaveform(ctx, f.Station, f.Channel, &f.Waveform)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for i, d := range f.Detections {
		if _, err = store.StoreDetection(ctx, amplitude.Detection{
			WaveformID:  waveformID,
			ArrivalTime: d.ArrivalTime,
			PickTime:    d.Pick(),
			Phase:       d.Phase,
		}); err != nil {
			return fmt.Errorf("%s: detection %d: %w", path, i, err)
		}
	}

	summary := f.Waveform.Summary()
	logger.Info("imported waveform",
		slog.String("path", path),
		slog.Int64("waveformID", waveformID),
		slog.String("station", f.Station),
		slog.String("channel", f.Channel),
		slog.String("samples", humanize.Comma(int64(summary.NumSamples))),
		slog.Float64("duration", f.Waveform.Duration()),
		slog.Float64("rms", summary.RMS),
		slog.Int("detections", len(f.Detections)),
	)

	return nil
}

func listMeasurements(ctx context.Context, store storage.Store, out io.Writer, opts ...storage.ReaderOption) (err error) {
	reader, err := store.ReadMeasurements(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, reader.Close())
	}()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATION\tCHANNEL\tPHASE\tSTART\tAMPLITUDE\tSCALED\tPERIOD\tWARNINGS")

	for reader.Next(ctx) {
		rec := reader.Current()
		r := rec.Result

		warnings := "-"
		if r.InWarning() {
			warnings = fmt.Sprint(r.Warnings)
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3f\t%s\t%s\t%.3fs\t%s\n",
			rec.ID,
			rec.Station,
			rec.Channel,
			r.Detection.Phase,
			r.Measurement.StartTime,
			formatSI(r.Measurement.Amplitude.Value),
			formatSI(r.Scaled.Amplitude.Value),
			r.Measurement.Period,
			warnings,
		)
	}
	if err = reader.Error(); err != nil {
		return err
	}

	return w.Flush()
}

func formatSI(v float64) string {
	value, prefix := humanize.ComputeSI(v)
	return fmt.Sprintf("%.3f%s", value, prefix)
}

func createStorage(config *StorageConfig) (*storage.SqliteStore, error) {
	dir := config.DataDirectory
	if dir == "" {
		dir = storageDir
	}

	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	stat, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dir, err)
		}
		return nil, fmt.Errorf("checking storage directory '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dir)
	}

	return storage.NewSqliteStore(filepath.Join(dir, config.Database)), nil
}
