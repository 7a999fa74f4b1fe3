package genetic

import (
	"fmt"
	"math/rand"
)

// RouletteWheelSelection picks individuals with probability proportional to fitness.
// Negative fitness counts as zero. When every fitness is zero the pick is uniform.
type RouletteWheelSelection[I Individual] struct{}

// Select implements SelectionMethod.
func (RouletteWheelSelection[I]) Select(rng *rand.Rand, population []I) I {
	if len(population) == 0 {
		panic("genetic: cannot select from an empty population")
	}

	total := 0.0
	for _, ind := range population {
		total += max(ind.Fitness(), 0)
	}
	if total <= 0 {
		return population[rng.Intn(len(population))]
	}

	// Spin the wheel
	spin := rng.Float64() * total
	last := 0
	for i, ind := range population {
		f := max(ind.Fitness(), 0)
		if f == 0 {
			continue
		}
		last = i
		if spin < f {
			return ind
		}
		spin -= f
	}
	// Rounding left a sliver past the final slot
	return population[last]
}

// UniformCrossover takes each gene from either parent with equal probability.
type UniformCrossover struct{}

// Crossover implements CrossoverMethod. It panics if the parents differ in length.
func (UniformCrossover) Crossover(rng *rand.Rand, a, b Chromosome) Chromosome {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("genetic: crossover of %d and %d genes", a.Len(), b.Len()))
	}
	child := make(Chromosome, a.Len())
	for i := range child {
		if rng.Float64() < 0.5 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}

// GaussianMutation nudges each gene with probability Chance by up to ±Coeff.
// The offset is sign * Coeff * U[0,1).
type GaussianMutation struct {
	Chance float64
	Coeff  float64
}

// NewGaussianMutation panics unless chance is within [0, 1].
func NewGaussianMutation(chance, coeff float64) GaussianMutation {
	if chance < 0 || chance > 1 {
		panic(fmt.Sprintf("genetic: mutation chance must be in [0, 1], got %g", chance))
	}
	return GaussianMutation{Chance: chance, Coeff: coeff}
}

// Mutate implements MutationMethod.
func (m GaussianMutation) Mutate(rng *rand.Rand, child Chromosome) {
	for i := range child {
		if rng.Float64() >= m.Chance {
			continue
		}
		sign := 1.0
		if rng.Float64() < 0.5 {
			sign = -1
		}
		child[i] += sign * m.Coeff * rng.Float64()
	}
}
