// Package genetic implements a generational genetic algorithm over flat float genomes.
package genetic

import (
	"fmt"
	"math/rand"
)

// Chromosome is a flat genome.
type Chromosome []float64

// Len returns the number of genes.
func (c Chromosome) Len() int { return len(c) }

// Clone returns an independent copy.
func (c Chromosome) Clone() Chromosome {
	return append(Chromosome(nil), c...)
}

// Individual is anything the algorithm can rank and recombine.
type Individual interface {
	Fitness() float64
	Chromosome() Chromosome
}

// SelectionMethod picks one parent from a population.
type SelectionMethod[I Individual] interface {
	Select(rng *rand.Rand, population []I) I
}

// CrossoverMethod combines two parent genomes into a child.
type CrossoverMethod interface {
	Crossover(rng *rand.Rand, a, b Chromosome) Chromosome
}

// MutationMethod perturbs a child genome in place.
type MutationMethod interface {
	Mutate(rng *rand.Rand, child Chromosome)
}

// GeneticAlgorithm produces a new population of the same size from an old one.
type GeneticAlgorithm[I Individual] struct {
	create    func(Chromosome) I
	selection SelectionMethod[I]
	crossover CrossoverMethod
	mutation  MutationMethod
}

// New builds an algorithm. create turns a child genome into an individual.
func New[I Individual](
	create func(Chromosome) I,
	selection SelectionMethod[I],
	crossover CrossoverMethod,
	mutation MutationMethod,
) *GeneticAlgorithm[I] {
	return &GeneticAlgorithm[I]{
		create:    create,
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
	}
}

// Evolve returns len(population) children and statistics of the input population.
// It panics on an empty population or mismatched genome lengths.
func (ga *GeneticAlgorithm[I]) Evolve(rng *rand.Rand, population []I) ([]I, Statistics) {
	if len(population) == 0 {
		panic("genetic: cannot evolve an empty population")
	}
	genes := population[0].Chromosome().Len()
	for i, ind := range population {
		if n := ind.Chromosome().Len(); n != genes {
			panic(fmt.Sprintf("genetic: individual %d has %d genes, want %d", i, n, genes))
		}
	}

	next := make([]I, len(population))
	for i := range next {
		a := ga.selection.Select(rng, population).Chromosome()
		b := ga.selection.Select(rng, population).Chromosome()
		child := ga.crossover.Crossover(rng, a, b)
		ga.mutation.Mutate(rng, child)
		next[i] = ga.create(child)
	}

	return next, NewStatistics(population)
}
