package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
	"github.com/pthm-cable/birdies/neural"
	"github.com/pthm-cable/birdies/vmath"
)

// testConfig shortens generations so tests cross boundaries quickly.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Evolution.GenerationLength = 50
	return cfg
}

func TestRandomWorldCounts(t *testing.T) {
	cfg := config.Default()
	w := RandomWorld(cfg, rand.New(rand.NewSource(42)))

	if got := w.AnimalCount(); got != 40 {
		t.Errorf("animals = %d, want 40", got)
	}
	if got := w.FoodCount(); got != 60 {
		t.Errorf("foods = %d, want 60", got)
	}
	for i, a := range w.Animals() {
		if a.Speed != cfg.Animal.StartSpeed {
			t.Errorf("animal %d speed = %g, want %g", i, a.Speed, cfg.Animal.StartSpeed)
		}
		if a.Satiation != 0 {
			t.Errorf("animal %d satiation = %d at birth", i, a.Satiation)
		}
		if a.Eye.Cells() != cfg.Eye.Cells {
			t.Errorf("animal %d eye has %d cells", i, a.Eye.Cells())
		}
	}
}

func TestStepInvariants(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(42))
	sim := New(cfg, rng)

	for step := 0; step < 3*cfg.Evolution.GenerationLength; step++ {
		sim.Step(rng)

		for i, a := range sim.World().Animals() {
			if a.Position.X < 0 || a.Position.X >= 1 || a.Position.Y < 0 || a.Position.Y >= 1 {
				t.Fatalf("step %d: animal %d at %v outside [0,1)", step, i, a.Position)
			}
			if a.Speed < cfg.Animal.SpeedMin || a.Speed > cfg.Animal.SpeedMax {
				t.Fatalf("step %d: animal %d speed %g outside [%g, %g]",
					step, i, a.Speed, cfg.Animal.SpeedMin, cfg.Animal.SpeedMax)
			}
			if a.Rotation < -math.Pi || a.Rotation >= math.Pi {
				t.Fatalf("step %d: animal %d rotation %g not wrapped", step, i, a.Rotation)
			}
		}
		for i, f := range sim.World().Foods() {
			if f.Position.X < 0 || f.Position.X >= 1 || f.Position.Y < 0 || f.Position.Y >= 1 {
				t.Fatalf("step %d: food %d at %v outside [0,1)", step, i, f.Position)
			}
		}
	}
}

func TestTrainStepsAndAge(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(7))
	sim := New(cfg, rng)

	steps := 0
	for {
		steps++
		if _, ok := sim.Step(rng); ok {
			break
		}
		if steps > cfg.Evolution.GenerationLength+1 {
			t.Fatalf("no generation boundary after %d steps", steps)
		}
	}
	if steps != cfg.Evolution.GenerationLength+1 {
		t.Errorf("boundary after %d steps, want %d", steps, cfg.Evolution.GenerationLength+1)
	}
	if sim.Age() != 0 {
		t.Errorf("age = %d after evolution, want 0", sim.Age())
	}

	sim.Train(rng)
	if sim.Age() != 0 {
		t.Errorf("age = %d after Train, want 0", sim.Age())
	}
	if sim.Generation() != 2 {
		t.Errorf("generation = %d, want 2", sim.Generation())
	}
	report, ok := sim.LastReport()
	if !ok {
		t.Fatal("no report after Train")
	}
	if report.Steps != cfg.Evolution.GenerationLength+1 {
		t.Errorf("report steps = %d, want %d", report.Steps, cfg.Evolution.GenerationLength+1)
	}
	if report.Generation != 2 {
		t.Errorf("report generation = %d, want 2", report.Generation)
	}
}

func TestEvolvePreservesPopulation(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(3))
	sim := New(cfg, rng)

	for gen := 0; gen < 3; gen++ {
		before := sim.World().AnimalCount()
		sim.Train(rng)
		after := sim.World().AnimalCount()
		if before != after {
			t.Fatalf("generation %d: %d animals in, %d out", gen, before, after)
		}
		if after != cfg.World.Animals {
			t.Fatalf("generation %d: %d animals, want %d", gen, after, cfg.World.Animals)
		}
		if sim.World().FoodCount() != cfg.World.Foods {
			t.Fatalf("generation %d: food count changed", gen)
		}

		genes := len(sim.World().Animals()[0].Chromosome())
		for i, a := range sim.World().Animals() {
			if a.Satiation != 0 {
				t.Errorf("newborn %d has satiation %d", i, a.Satiation)
			}
			if a.Speed != cfg.Animal.StartSpeed {
				t.Errorf("newborn %d speed = %g", i, a.Speed)
			}
			if len(a.Chromosome()) != genes {
				t.Errorf("newborn %d genome length %d, want %d", i, len(a.Chromosome()), genes)
			}
		}
	}
}

func TestEvolveStatisticsMatchSatiation(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(11))
	world := NewWorld()
	for _, sat := range []int{0, 2, 4} {
		a := RandomAnimal(cfg, rng)
		a.Satiation = sat
		world.SpawnAnimal(a)
	}
	sim := NewWithWorld(cfg, world)

	stats := sim.Evolve(rng)
	if stats.MinFitness != 0 || stats.MaxFitness != 4 || stats.AvgFitness != 2 {
		t.Errorf("stats = %+v, want min 0 max 4 avg 2", stats)
	}

	champ, ok := sim.Champion()
	if !ok {
		t.Fatal("no champion after Evolve")
	}
	if champ.Fitness != 4 || champ.Generation != 1 {
		t.Errorf("champion = fitness %g gen %d, want 4 and 1", champ.Fitness, champ.Generation)
	}
}

func TestDeterminism(t *testing.T) {
	cfg := testConfig()

	run := func() ([]Animal, []Food) {
		rng := rand.New(rand.NewSource(1234))
		sim := New(cfg, rng)
		for i := 0; i < 2*cfg.Evolution.GenerationLength+10; i++ {
			sim.Step(rng)
		}
		return sim.World().Animals(), sim.World().Foods()
	}

	animalsA, foodsA := run()
	animalsB, foodsB := run()

	for i := range animalsA {
		a, b := animalsA[i], animalsB[i]
		if a.Position != b.Position || a.Rotation != b.Rotation || a.Speed != b.Speed || a.Satiation != b.Satiation {
			t.Fatalf("animal %d differs: %+v vs %+v", i, a, b)
		}
		ca, cb := a.Chromosome(), b.Chromosome()
		for j := range ca {
			if ca[j] != cb[j] {
				t.Fatalf("animal %d gene %d differs", i, j)
			}
		}
	}
	for i := range foodsA {
		if foodsA[i] != foodsB[i] {
			t.Fatalf("food %d differs: %+v vs %+v", i, foodsA[i], foodsB[i])
		}
	}
}

func TestEatFoodAtSamePosition(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(5))

	at := vmath.Vec2{X: 0.5, Y: 0.5}
	world := NewWorld()
	eye := EyeFromConfig(cfg)
	world.SpawnAnimal(Animal{
		Position: at,
		Rotation: 0,
		Speed:    cfg.Animal.SpeedMin,
		Eye:      eye,
		Brain:    neural.RandomBrain(rng, eye),
	})
	world.SpawnFood(at)

	sim := NewWithWorld(cfg, world)
	sim.Step(rng)

	animals := world.Animals()
	if animals[0].Satiation != 1 {
		t.Errorf("satiation = %d, want 1", animals[0].Satiation)
	}
	foods := world.Foods()
	if foods[0].Position == at {
		t.Error("food was not respawned")
	}
	if foods[0].Eaten != 1 {
		t.Errorf("food eaten count = %d, want 1", foods[0].Eaten)
	}
	if sim.Meals() != 1 {
		t.Errorf("meals = %d, want 1", sim.Meals())
	}
}

func TestReplaceAnimalsKeepsOrder(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(9))
	world := RandomWorld(cfg, rng)

	next := make([]Animal, 5)
	for i := range next {
		next[i] = RandomAnimal(cfg, rng)
		next[i].Satiation = i
	}
	world.ReplaceAnimals(next)

	got := world.Animals()
	if len(got) != 5 {
		t.Fatalf("got %d animals, want 5", len(got))
	}
	for i, a := range got {
		if a.Satiation != i || a.Position != next[i].Position {
			t.Errorf("animal %d out of order: %+v", i, a)
		}
	}
	if world.FoodCount() != cfg.World.Foods {
		t.Errorf("foods = %d after replace, want %d", world.FoodCount(), cfg.World.Foods)
	}
}

func TestEvolveEmptyPopulationPanics(t *testing.T) {
	sim := NewWithWorld(testConfig(), NewWorld())
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	sim.Evolve(rand.New(rand.NewSource(1)))
}

func TestIndividualRoundTrip(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(2))
	a := RandomAnimal(cfg, rng)
	a.Satiation = 7

	ind := AnimalIndividualFromAnimal(a)
	if ind.Fitness() != 7 {
		t.Errorf("fitness = %g, want 7", ind.Fitness())
	}

	b := ind.IntoAnimal(cfg, rng)
	ca, cb := a.Chromosome(), b.Chromosome()
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("gene %d changed: %g vs %g", i, ca[i], cb[i])
		}
	}
	if b.Satiation != 0 {
		t.Errorf("reborn satiation = %d", b.Satiation)
	}
}

func TestSeededWorld(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(4))
	seed := RandomAnimal(cfg, rng).Chromosome()

	w := SeededWorld(cfg, rng, []genetic.Chromosome{seed})
	if w.AnimalCount() != cfg.World.Animals || w.FoodCount() != cfg.World.Foods {
		t.Fatalf("counts = %d animals, %d foods", w.AnimalCount(), w.FoodCount())
	}
	for i, a := range w.Animals() {
		c := a.Chromosome()
		for j := range c {
			if c[j] != seed[j] {
				t.Fatalf("animal %d gene %d not seeded", i, j)
			}
		}
	}

	if got := SeededWorld(cfg, rng, nil).AnimalCount(); got != cfg.World.Animals {
		t.Errorf("fallback world has %d animals", got)
	}
}
