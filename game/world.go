// Package game ties the ECS world, systems and genetic algorithm into a simulation.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/birdies/components"
	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
	"github.com/pthm-cable/birdies/vmath"
)

// World holds every animal and food of one generation in an ECS world.
// Iteration order is spawn order, so runs are reproducible.
type World struct {
	world *ecs.World

	animalMapper *ecs.Map5[
		components.Position,
		components.Rotation,
		components.Speed,
		components.Satiation,
		components.Senses,
	]
	animalFilter *ecs.Filter5[
		components.Position,
		components.Rotation,
		components.Speed,
		components.Satiation,
		components.Senses,
	]
	foodMapper *ecs.Map2[components.Position, components.Food]
	foodFilter *ecs.Filter2[components.Position, components.Food]
}

// NewWorld creates an empty world.
func NewWorld() *World {
	world := ecs.NewWorld()
	return &World{
		world: world,
		animalMapper: ecs.NewMap5[
			components.Position,
			components.Rotation,
			components.Speed,
			components.Satiation,
			components.Senses,
		](world),
		animalFilter: ecs.NewFilter5[
			components.Position,
			components.Rotation,
			components.Speed,
			components.Satiation,
			components.Senses,
		](world),
		foodMapper: ecs.NewMap2[components.Position, components.Food](world),
		foodFilter: ecs.NewFilter2[components.Position, components.Food](world),
	}
}

// RandomWorld spawns cfg.World.Animals random animals, then cfg.World.Foods foods.
func RandomWorld(cfg *config.Config, rng *rand.Rand) *World {
	w := NewWorld()
	for i := 0; i < cfg.World.Animals; i++ {
		w.SpawnAnimal(RandomAnimal(cfg, rng))
	}
	for i := 0; i < cfg.World.Foods; i++ {
		w.SpawnFood(vmath.RandomPoint(rng))
	}
	return w
}

// SeededWorld is like RandomWorld but births animals from the given genomes,
// cycling through them. Empty genomes fall back to RandomWorld.
func SeededWorld(cfg *config.Config, rng *rand.Rand, genomes []genetic.Chromosome) *World {
	if len(genomes) == 0 {
		return RandomWorld(cfg, rng)
	}
	w := NewWorld()
	for i := 0; i < cfg.World.Animals; i++ {
		w.SpawnAnimal(AnimalFromChromosome(cfg, genomes[i%len(genomes)], rng))
	}
	for i := 0; i < cfg.World.Foods; i++ {
		w.SpawnFood(vmath.RandomPoint(rng))
	}
	return w
}

// ECS returns the underlying ECS world for system construction.
func (w *World) ECS() *ecs.World {
	return w.world
}

// SpawnAnimal adds an animal.
func (w *World) SpawnAnimal(a Animal) ecs.Entity {
	pos := components.Position{Vec2: a.Position}
	rot := components.Rotation{Angle: a.Rotation}
	speed := components.Speed{Value: a.Speed}
	sat := components.Satiation{Count: a.Satiation}
	senses := components.Senses{Eye: a.Eye, Brain: a.Brain}
	return w.animalMapper.NewEntity(&pos, &rot, &speed, &sat, &senses)
}

// SpawnFood adds a food item.
func (w *World) SpawnFood(position vmath.Vec2) ecs.Entity {
	pos := components.Position{Vec2: position}
	food := components.Food{}
	return w.foodMapper.NewEntity(&pos, &food)
}

// Animals returns a snapshot of every animal in iteration order.
func (w *World) Animals() []Animal {
	var out []Animal
	query := w.animalFilter.Query()
	for query.Next() {
		pos, rot, speed, sat, senses := query.Get()
		out = append(out, Animal{
			Position:  pos.Vec2,
			Rotation:  rot.Angle,
			Speed:     speed.Value,
			Satiation: sat.Count,
			Eye:       senses.Eye,
			Brain:     senses.Brain,
		})
	}
	return out
}

// Foods returns a snapshot of every food in iteration order.
func (w *World) Foods() []Food {
	var out []Food
	query := w.foodFilter.Query()
	for query.Next() {
		pos, food := query.Get()
		out = append(out, Food{Position: pos.Vec2, Eaten: food.Eaten})
	}
	return out
}

// AnimalCount returns the number of animals.
func (w *World) AnimalCount() int {
	n := 0
	query := w.animalFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// FoodCount returns the number of foods.
func (w *World) FoodCount() int {
	n := 0
	query := w.foodFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// ReplaceAnimals removes every animal and spawns the given ones in order.
func (w *World) ReplaceAnimals(animals []Animal) {
	var old []ecs.Entity
	query := w.animalFilter.Query()
	for query.Next() {
		old = append(old, query.Entity())
	}
	// Structural changes are not allowed while the query is open
	for _, e := range old {
		w.world.RemoveEntity(e)
	}

	for _, a := range animals {
		w.SpawnAnimal(a)
	}
}

// ScatterFoods moves every food to a random point.
func (w *World) ScatterFoods(rng *rand.Rand) {
	query := w.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		pos.Vec2 = vmath.RandomPoint(rng)
	}
}
