package main

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/game"
	"github.com/pthm-cable/birdies/telemetry"
)

// stabilityWeight scales how much a steady late-run average is rewarded.
const stabilityWeight = 0.2

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastStability  float64 // stability from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastStability returns the stability score from the most recent evaluation.
func (fe *FitnessEvaluator) LastStability() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStability
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	stability  float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated average satiation late in the run.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalStability float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalStability += r.stability
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	// Update best tracking
	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastStability = totalStability / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation trains one seeded simulation for the configured number of generations.
// cfg is shared read-only between seeds.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) seedResult {
	rng := rand.New(rand.NewSource(seed))
	sim := game.New(cfg, rng)
	recorder := game.NewRecorder(game.RecorderOptions{HallSize: 5})

	averages := make([]float64, 0, fe.generations)
	_, _ = sim.TrainGenerations(context.Background(), rng, fe.generations, func(report game.Report) error {
		averages = append(averages, report.Stats.AvgFitness)
		return recorder.Record(context.Background(), report)
	})

	late := lateWindow(averages)
	mean, stability := scoreWindow(late)
	return seedResult{
		fitness:    computeFitness(mean, stability),
		stability:  stability,
		hallOfFame: recorder.Hall(),
	}
}

// copyConfig returns a copy of the base config for one evaluation.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// lateWindow returns the second half of a run, where selection has had time to act.
func lateWindow(averages []float64) []float64 {
	return averages[len(averages)/2:]
}

// scoreWindow returns the mean of the averages and a [0, 1] stability score
// that falls as their coefficient of variation grows.
func scoreWindow(averages []float64) (mean, stability float64) {
	if len(averages) == 0 {
		return 0, 0
	}
	mean, std := stat.PopMeanStdDev(averages, nil)
	if mean == 0 {
		return 0, 0
	}
	cv := std / mean
	return mean, math.Exp(-cv * cv)
}

func computeFitness(mean, stability float64) float64 {
	return -mean * (1 + stabilityWeight*stability)
}
