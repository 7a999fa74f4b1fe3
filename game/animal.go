package game

import (
	"math/rand"

	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/genetic"
	"github.com/pthm-cable/birdies/neural"
	"github.com/pthm-cable/birdies/vmath"
)

// Animal is a value view of one animal entity.
type Animal struct {
	Position  vmath.Vec2
	Rotation  float64
	Speed     float64
	Satiation int
	Eye       neural.Eye
	Brain     *neural.Brain
}

// Food is a value view of one food entity.
type Food struct {
	Position vmath.Vec2
	Eaten    int
}

// EyeFromConfig builds the eye every animal is born with.
func EyeFromConfig(cfg *config.Config) neural.Eye {
	return neural.NewEye(cfg.Eye.FOVRange, cfg.Eye.FOVAngle, cfg.Eye.Cells)
}

// RandomAnimal creates an animal with a random brain and random birth state.
func RandomAnimal(cfg *config.Config, rng *rand.Rand) Animal {
	eye := EyeFromConfig(cfg)
	brain := neural.RandomBrain(rng, eye)
	return newAnimal(cfg, eye, brain, rng)
}

// AnimalFromChromosome creates a newborn animal whose brain is rebuilt from chromosome.
func AnimalFromChromosome(cfg *config.Config, chromosome genetic.Chromosome, rng *rand.Rand) Animal {
	eye := EyeFromConfig(cfg)
	brain := neural.BrainFromChromosome(chromosome, eye)
	return newAnimal(cfg, eye, brain, rng)
}

func newAnimal(cfg *config.Config, eye neural.Eye, brain *neural.Brain, rng *rand.Rand) Animal {
	return Animal{
		Position: vmath.RandomPoint(rng),
		Rotation: vmath.RandomRotation(rng),
		Speed:    cfg.Animal.StartSpeed,
		Eye:      eye,
		Brain:    brain,
	}
}

// Chromosome returns the animal's brain genome.
func (a Animal) Chromosome() genetic.Chromosome {
	return a.Brain.Chromosome()
}
