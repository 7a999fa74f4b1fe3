package game

import (
	"math/rand"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
)

// AnimalIndividual is the genetic algorithm's view of an animal.
// Fitness is the number of foods eaten.
type AnimalIndividual struct {
	fitness    float64
	chromosome genetic.Chromosome
}

// AnimalIndividualFromAnimal projects an animal for evolution.
func AnimalIndividualFromAnimal(a Animal) *AnimalIndividual {
	return &AnimalIndividual{
		fitness:    float64(a.Satiation),
		chromosome: a.Chromosome(),
	}
}

// NewAnimalIndividual wraps a child genome. Its fitness is zero until it lives.
func NewAnimalIndividual(chromosome genetic.Chromosome) *AnimalIndividual {
	return &AnimalIndividual{chromosome: chromosome}
}

// Fitness implements genetic.Individual.
func (ai *AnimalIndividual) Fitness() float64 { return ai.fitness }

// Chromosome implements genetic.Individual.
func (ai *AnimalIndividual) Chromosome() genetic.Chromosome { return ai.chromosome }

// IntoAnimal births a fresh animal carrying this genome.
func (ai *AnimalIndividual) IntoAnimal(cfg *config.Config, rng *rand.Rand) Animal {
	return AnimalFromChromosome(cfg, ai.chromosome, rng)
}
