// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/birdies/components"
	"github.com/pthm-cable/birdies/vmath"
)

// MovementSystem advances animals along their heading and wraps them on the torus.
type MovementSystem struct {
	filter ecs.Filter3[components.Position, components.Rotation, components.Speed]
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{
		filter: *ecs.NewFilter3[components.Position, components.Rotation, components.Speed](w),
	}
}

// Update moves every animal by Forward(rotation) * speed.
func (s *MovementSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		pos, rot, speed := query.Get()
		pos.Vec2 = vmath.WrapPoint(pos.Add(vmath.Forward(rot.Angle).Scale(speed.Value)))
	}
}
