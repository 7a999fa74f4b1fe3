package game

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
	"github.com/pthm-cable/birdies/systems"
	"github.com/pthm-cable/birdies/telemetry"
)

// Champion is the fittest animal of a finished generation.
type Champion struct {
	Generation int
	Fitness    float64
	Chromosome genetic.Chromosome
}

// Report summarizes the most recently finished generation.
type Report struct {
	Generation int // 1-based index of the finished generation
	Steps      int
	Meals      int
	Stats      genetic.Statistics
	Champion   Champion
}

// Simulation steps a World and evolves its animals every generation.
type Simulation struct {
	cfg   *config.Config
	world *World
	ga    *genetic.GeneticAlgorithm[*AnimalIndividual]

	collisions *systems.CollisionSystem
	brains     *systems.BrainSystem
	movement   *systems.MovementSystem
	perf       *telemetry.PerfCollector // nil unless step timing is enabled

	age        int // steps since the last evolution
	generation int // completed evolutions
	meals      int // meals eaten this generation

	lastReport Report
	hasReport  bool
}

// Random creates a simulation with the default config and a random world.
func Random(rng *rand.Rand) *Simulation {
	return New(config.Default(), rng)
}

// New creates a simulation with a random world sized by cfg.
func New(cfg *config.Config, rng *rand.Rand) *Simulation {
	return NewWithWorld(cfg, RandomWorld(cfg, rng))
}

// NewWithWorld creates a simulation over an existing world.
func NewWithWorld(cfg *config.Config, world *World) *Simulation {
	w := world.ECS()
	return &Simulation{
		cfg:   cfg,
		world: world,
		ga: genetic.New(
			NewAnimalIndividual,
			genetic.RouletteWheelSelection[*AnimalIndividual]{},
			genetic.UniformCrossover{},
			genetic.NewGaussianMutation(cfg.Evolution.MutationChance, cfg.Evolution.MutationCoeff),
		),
		collisions: systems.NewCollisionSystem(w, cfg),
		brains:     systems.NewBrainSystem(w, cfg),
		movement:   systems.NewMovementSystem(w),
	}
}

// World returns the simulated world.
func (s *Simulation) World() *World { return s.world }

// Config returns the simulation's config.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Age returns the number of steps since the last evolution.
func (s *Simulation) Age() int { return s.age }

// Generation returns the number of completed evolutions.
func (s *Simulation) Generation() int { return s.generation }

// Meals returns the number of meals eaten so far this generation.
func (s *Simulation) Meals() int { return s.meals }

// LastReport returns the summary of the last finished generation, if any.
func (s *Simulation) LastReport() (Report, bool) { return s.lastReport, s.hasReport }

// Champion returns the fittest animal of the last finished generation, if any.
func (s *Simulation) Champion() (Champion, bool) {
	return s.lastReport.Champion, s.hasReport
}

// SetPerf enables per-phase step timing. nil disables it.
func (s *Simulation) SetPerf(perf *telemetry.PerfCollector) { s.perf = perf }

// Perf returns the step timing collector, or nil.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Step runs collisions, brains and movement once. When the generation is over it
// evolves the population and returns the statistics with true.
func (s *Simulation) Step(rng *rand.Rand) (genetic.Statistics, bool) {
	s.perf.StartStep()
	defer s.perf.EndStep()

	s.perf.StartPhase(telemetry.PhaseCollisions)
	s.meals += s.collisions.Update(rng)
	s.perf.StartPhase(telemetry.PhaseBrains)
	s.brains.Update()
	s.perf.StartPhase(telemetry.PhaseMovement)
	s.movement.Update()

	s.age++
	if s.age > s.cfg.Evolution.GenerationLength {
		s.perf.StartPhase(telemetry.PhaseEvolve)
		return s.Evolve(rng), true
	}
	return genetic.Statistics{}, false
}

// Train steps until the next generation boundary and returns its statistics.
func (s *Simulation) Train(rng *rand.Rand) genetic.Statistics {
	for {
		if stats, ok := s.Step(rng); ok {
			return stats
		}
	}
}

// ctxCheckSteps is how often TrainGenerations looks at its context.
const ctxCheckSteps = 256

// TrainGenerations trains until n generations have finished, ctx is done or
// fn returns an error. n <= 0 means no limit. fn may be nil. It returns the
// number of generations trained. A cancelled ctx stops within ctxCheckSteps
// steps, leaving the current generation unfinished.
func (s *Simulation) TrainGenerations(ctx context.Context, rng *rand.Rand, n int, fn func(Report) error) (int, error) {
	trained := 0
	for n <= 0 || trained < n {
		for step := 0; ; step++ {
			if step%ctxCheckSteps == 0 {
				if err := ctx.Err(); err != nil {
					return trained, err
				}
			}
			if _, ok := s.Step(rng); ok {
				break
			}
		}
		trained++
		if fn != nil {
			if err := fn(s.lastReport); err != nil {
				return trained, err
			}
		}
	}
	return trained, nil
}

// Evolve replaces every animal with a child of the current population and
// scatters the food. Population size is preserved.
func (s *Simulation) Evolve(rng *rand.Rand) genetic.Statistics {
	steps := s.age
	s.age = 0

	animals := s.world.Animals()
	population := make([]*AnimalIndividual, len(animals))
	champion := Champion{Generation: s.generation + 1}
	for i, a := range animals {
		population[i] = AnimalIndividualFromAnimal(a)
		if i == 0 || population[i].Fitness() > champion.Fitness {
			champion.Fitness = population[i].Fitness()
			champion.Chromosome = population[i].Chromosome()
		}
	}

	children, stats := s.ga.Evolve(rng, population)

	next := make([]Animal, len(children))
	for i, child := range children {
		next[i] = child.IntoAnimal(s.cfg, rng)
	}
	s.world.ReplaceAnimals(next)
	s.world.ScatterFoods(rng)

	s.generation++
	s.lastReport = Report{
		Generation: s.generation,
		Steps:      steps,
		Meals:      s.meals,
		Stats:      stats,
		Champion:   champion,
	}
	s.hasReport = true
	s.meals = 0

	slog.Debug("generation_evolved",
		"generation", s.generation,
		"steps", steps,
		"population", len(children),
		"stats", stats,
	)

	return stats
}
