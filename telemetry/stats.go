// Package telemetry records per-generation statistics for logging and CSV output.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/birdies/genetic"
)

// GenerationRecord summarizes one finished generation.
type GenerationRecord struct {
	Generation      int     `csv:"generation"`
	Steps           int     `csv:"steps"`
	Meals           int     `csv:"meals"`
	MinFitness      float64 `csv:"min_fitness"`
	MaxFitness      float64 `csv:"max_fitness"`
	AvgFitness      float64 `csv:"avg_fitness"`
	MedianFitness   float64 `csv:"median_fitness"`
	StdDevFitness   float64 `csv:"stddev_fitness"`
	MealsPerStep    float64 `csv:"meals_per_step"`
	ChampionFitness float64 `csv:"champion_fitness"`
}

// NewGenerationRecord builds a record from the statistics of a finished generation.
func NewGenerationRecord(generation, steps, meals int, stats genetic.Statistics, championFitness float64) GenerationRecord {
	r := GenerationRecord{
		Generation:      generation,
		Steps:           steps,
		Meals:           meals,
		MinFitness:      stats.MinFitness,
		MaxFitness:      stats.MaxFitness,
		AvgFitness:      stats.AvgFitness,
		MedianFitness:   stats.MedianFitness,
		StdDevFitness:   stats.StdDevFitness,
		ChampionFitness: championFitness,
	}
	if steps > 0 {
		r.MealsPerStep = float64(meals) / float64(steps)
	}
	return r
}

// Statistics returns the fitness part of the record.
func (r GenerationRecord) Statistics() genetic.Statistics {
	return genetic.Statistics{
		MinFitness:    r.MinFitness,
		MaxFitness:    r.MaxFitness,
		AvgFitness:    r.AvgFitness,
		MedianFitness: r.MedianFitness,
		StdDevFitness: r.StdDevFitness,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", r.Generation),
		slog.Int("steps", r.Steps),
		slog.Int("meals", r.Meals),
		slog.Float64("min_fitness", r.MinFitness),
		slog.Float64("max_fitness", r.MaxFitness),
		slog.Float64("avg_fitness", r.AvgFitness),
		slog.Float64("median_fitness", r.MedianFitness),
		slog.Float64("stddev_fitness", r.StdDevFitness),
		slog.Float64("meals_per_step", r.MealsPerStep),
		slog.Float64("champion_fitness", r.ChampionFitness),
	)
}

// LogStats logs the record at Info level.
func (r GenerationRecord) LogStats() {
	slog.Info("generation", "stats", r)
}
