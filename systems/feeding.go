package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/birdies/components"
	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/vmath"
)

// CollisionSystem lets animals eat food within the eat radius.
// Eaten food respawns at a random point immediately.
type CollisionSystem struct {
	animals ecs.Filter2[components.Position, components.Satiation]
	foods   ecs.Filter2[components.Position, components.Food]
	radius  float64

	// Reused between updates
	foodPos  []*components.Position
	foodData []*components.Food
}

// NewCollisionSystem creates a new collision system.
func NewCollisionSystem(w *ecs.World, cfg *config.Config) *CollisionSystem {
	return &CollisionSystem{
		animals: *ecs.NewFilter2[components.Position, components.Satiation](w),
		foods:   *ecs.NewFilter2[components.Position, components.Food](w),
		radius:  cfg.World.EatRadius,
	}
}

// Update checks every (animal, food) pair and returns the number of meals eaten.
// A respawned food is tested against later animals at its new position.
func (s *CollisionSystem) Update(rng *rand.Rand) int {
	s.foodPos = s.foodPos[:0]
	s.foodData = s.foodData[:0]
	foodQuery := s.foods.Query()
	for foodQuery.Next() {
		pos, food := foodQuery.Get()
		s.foodPos = append(s.foodPos, pos)
		s.foodData = append(s.foodData, food)
	}

	meals := 0
	query := s.animals.Query()
	for query.Next() {
		pos, sat := query.Get()
		for i, foodPos := range s.foodPos {
			if pos.Distance(foodPos.Vec2) > s.radius {
				continue
			}
			sat.Count++
			s.foodData[i].Eaten++
			foodPos.Vec2 = vmath.RandomPoint(rng)
			meals++
		}
	}
	return meals
}
