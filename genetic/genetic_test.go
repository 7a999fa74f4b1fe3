package genetic

import (
	"math"
	"math/rand"
	"testing"
)

type testIndividual struct {
	fitness    float64
	chromosome Chromosome
}

func (t testIndividual) Fitness() float64       { return t.fitness }
func (t testIndividual) Chromosome() Chromosome { return t.chromosome }

func newTestIndividual(c Chromosome) testIndividual {
	return testIndividual{chromosome: c}
}

func newTestGA(chance, coeff float64) *GeneticAlgorithm[testIndividual] {
	return New(
		newTestIndividual,
		RouletteWheelSelection[testIndividual]{},
		UniformCrossover{},
		NewGaussianMutation(chance, coeff),
	)
}

func population(fitness ...float64) []testIndividual {
	pop := make([]testIndividual, len(fitness))
	for i, f := range fitness {
		pop[i] = testIndividual{fitness: f, chromosome: Chromosome{f, f, f}}
	}
	return pop
}

func TestEvolvePreservesSizeAndShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ga := newTestGA(0.5, 0.3)

	pop := population(1, 2, 3, 4, 5)
	for gen := 0; gen < 10; gen++ {
		next, _ := ga.Evolve(rng, pop)
		if len(next) != len(pop) {
			t.Fatalf("generation %d: got %d individuals, want %d", gen, len(next), len(pop))
		}
		for i, ind := range next {
			if ind.Chromosome().Len() != 3 {
				t.Fatalf("generation %d: child %d has %d genes", gen, i, ind.Chromosome().Len())
			}
		}
		// Children start with zero fitness; give them some so selection has signal
		for i := range next {
			next[i].fitness = float64(i)
		}
		pop = next
	}
}

func TestEvolveStatistics(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	_, stats := newTestGA(0.01, 0.3).Evolve(rng, population(1, 2, 3, 4, 5))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"min", stats.MinFitness, 1},
		{"max", stats.MaxFitness, 5},
		{"avg", stats.AvgFitness, 3},
		{"median", stats.MedianFitness, 3},
		{"stddev", stats.StdDevFitness, math.Sqrt(2)},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s = %g, want %g", tt.name, tt.got, tt.want)
		}
	}
}

func TestEvolveWithoutMutationKeepsParentGenes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := population(1, 2, 3)
	next, _ := newTestGA(0, 0.3).Evolve(rng, pop)

	allowed := map[float64]bool{1: true, 2: true, 3: true}
	for _, ind := range next {
		for _, g := range ind.Chromosome() {
			if !allowed[g] {
				t.Errorf("gene %g not inherited from any parent", g)
			}
		}
	}
}

func TestEvolvePanics(t *testing.T) {
	tests := []struct {
		name string
		pop  []testIndividual
	}{
		{"empty", nil},
		{"mismatched genomes", []testIndividual{
			{fitness: 1, chromosome: Chromosome{1, 2}},
			{fitness: 1, chromosome: Chromosome{1, 2, 3}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			newTestGA(0.01, 0.3).Evolve(rand.New(rand.NewSource(1)), tt.pop)
		})
	}
}

func TestRouletteWheelSelection(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sel := RouletteWheelSelection[testIndividual]{}

	t.Run("proportional", func(t *testing.T) {
		pop := population(1, 3)
		counts := map[float64]int{}
		const n = 20000
		for i := 0; i < n; i++ {
			counts[sel.Select(rng, pop).fitness]++
		}
		frac := float64(counts[3]) / n
		if math.Abs(frac-0.75) > 0.02 {
			t.Errorf("fitness 3 picked %.3f of the time, want ~0.75", frac)
		}
	})

	t.Run("zero fitness never picked", func(t *testing.T) {
		pop := population(0, 5, 0)
		for i := 0; i < 1000; i++ {
			if got := sel.Select(rng, pop).fitness; got != 5 {
				t.Fatalf("picked fitness %g", got)
			}
		}
	})

	t.Run("all zero is uniform", func(t *testing.T) {
		pop := []testIndividual{
			{chromosome: Chromosome{0}},
			{chromosome: Chromosome{1}},
		}
		seen := map[float64]bool{}
		for i := 0; i < 200; i++ {
			seen[sel.Select(rng, pop).chromosome[0]] = true
		}
		if len(seen) != 2 {
			t.Errorf("uniform fallback only picked %v", seen)
		}
	})
}

func TestUniformCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := make(Chromosome, 1000)
	b := make(Chromosome, 1000)
	for i := range b {
		b[i] = 1
	}

	child := UniformCrossover{}.Crossover(rng, a, b)
	fromB := 0
	for _, g := range child {
		fromB += int(g)
	}
	if fromB < 400 || fromB > 600 {
		t.Errorf("%d of 1000 genes from b, want roughly half", fromB)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	UniformCrossover{}.Crossover(rng, a, b[:10])
}

func TestGaussianMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("bounded offsets", func(t *testing.T) {
		child := make(Chromosome, 1000)
		NewGaussianMutation(1, 0.3).Mutate(rng, child)
		changed := 0
		for _, g := range child {
			if math.Abs(g) > 0.3 {
				t.Fatalf("gene moved by %g, more than coeff", g)
			}
			if g != 0 {
				changed++
			}
		}
		if changed < 990 {
			t.Errorf("only %d genes changed with chance 1", changed)
		}
	})

	t.Run("zero chance is identity", func(t *testing.T) {
		child := Chromosome{1, 2, 3}
		NewGaussianMutation(0, 0.3).Mutate(rng, child)
		if child[0] != 1 || child[1] != 2 || child[2] != 3 {
			t.Errorf("genome changed: %v", child)
		}
	})

	t.Run("invalid chance", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewGaussianMutation(1.5, 0.3)
	})
}

func TestEvolveDeterministic(t *testing.T) {
	pop := population(1, 2, 3, 4)
	a, _ := newTestGA(0.2, 0.3).Evolve(rand.New(rand.NewSource(9)), pop)
	b, _ := newTestGA(0.2, 0.3).Evolve(rand.New(rand.NewSource(9)), pop)
	for i := range a {
		for j := range a[i].chromosome {
			if a[i].chromosome[j] != b[i].chromosome[j] {
				t.Fatalf("child %d gene %d differs", i, j)
			}
		}
	}
}
