package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/birdies/storage"
	"github.com/pthm-cable/birdies/telemetry"
)

// DefaultHallSize is the number of champions kept by a Recorder.
const DefaultHallSize = 10

// RecorderOptions configures where finished generations are reported.
// Nil Output, Store and Perf are skipped.
type RecorderOptions struct {
	RunID    string
	LogStats bool
	HallSize int
	Output   *telemetry.OutputManager
	Store    *storage.SQLiteStore
	Perf     *telemetry.PerfCollector // step timing, usually Simulation.Perf()
}

// Recorder fans a finished generation out to the log, the CSV output,
// the hall of fame and the run archive.
type Recorder struct {
	runID    string
	logStats bool
	output   *telemetry.OutputManager
	store    *storage.SQLiteStore
	perf     *telemetry.PerfCollector
	hall     *telemetry.HallOfFame
}

// NewRecorder creates a recorder.
func NewRecorder(opts RecorderOptions) *Recorder {
	size := opts.HallSize
	if size <= 0 {
		size = DefaultHallSize
	}
	return &Recorder{
		runID:    opts.RunID,
		logStats: opts.LogStats,
		output:   opts.Output,
		store:    opts.Store,
		perf:     opts.Perf,
		hall:     telemetry.NewHallOfFame(size),
	}
}

// Hall returns the champions seen so far.
func (r *Recorder) Hall() *telemetry.HallOfFame {
	return r.hall
}

// Record reports one generation. Every sink is attempted; failures are joined.
// A trained generation is archived even when ctx is already cancelled.
func (r *Recorder) Record(ctx context.Context, report Report) error {
	ctx = context.WithoutCancel(ctx)

	record := telemetry.NewGenerationRecord(
		report.Generation,
		report.Steps,
		report.Meals,
		report.Stats,
		report.Champion.Fitness,
	)

	if r.logStats {
		record.LogStats()
	}

	var errs []error
	if err := r.output.WriteGeneration(record); err != nil {
		errs = append(errs, fmt.Errorf("writing generation %d: %w", report.Generation, err))
	}

	entry := telemetry.HallEntry{
		Generation: report.Champion.Generation,
		Fitness:    report.Champion.Fitness,
		Chromosome: report.Champion.Chromosome,
	}
	if r.hall.Consider(entry) {
		slog.Debug("hall_of_fame_entry", "generation", entry.Generation, "fitness", entry.Fitness)
		if err := r.output.WriteHallOfFame(r.hall); err != nil {
			errs = append(errs, fmt.Errorf("writing hall of fame: %w", err))
		}
	}

	if r.perf != nil {
		perf := r.perf.Stats()
		if r.logStats {
			perf.LogStats()
		}
		if err := r.output.WritePerf(perf.Record(report.Generation)); err != nil {
			errs = append(errs, fmt.Errorf("writing perf %d: %w", report.Generation, err))
		}
	}

	if r.store != nil {
		if err := r.store.SaveGeneration(ctx, r.runID, record, report.Champion.Chromosome); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
