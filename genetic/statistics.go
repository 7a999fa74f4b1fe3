package genetic

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the fitness of one population.
type Statistics struct {
	MinFitness    float64 `csv:"min_fitness"`
	MaxFitness    float64 `csv:"max_fitness"`
	AvgFitness    float64 `csv:"avg_fitness"`
	MedianFitness float64 `csv:"median_fitness"`
	StdDevFitness float64 `csv:"stddev_fitness"`
}

// NewStatistics computes fitness statistics. An empty population yields zeros.
func NewStatistics[I Individual](population []I) Statistics {
	if len(population) == 0 {
		return Statistics{}
	}

	fitness := make([]float64, len(population))
	for i, ind := range population {
		fitness[i] = ind.Fitness()
	}
	sort.Float64s(fitness)

	mean, std := stat.PopMeanStdDev(fitness, nil)
	return Statistics{
		MinFitness:    floats.Min(fitness),
		MaxFitness:    floats.Max(fitness),
		AvgFitness:    mean,
		MedianFitness: stat.Quantile(0.5, stat.Empirical, fitness, nil),
		StdDevFitness: std,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("min", s.MinFitness),
		slog.Float64("max", s.MaxFitness),
		slog.Float64("avg", s.AvgFitness),
		slog.Float64("median", s.MedianFitness),
		slog.Float64("stddev", s.StdDevFitness),
	)
}
