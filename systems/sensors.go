package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/birdies/components"
	"github.com/pthm-cable/birdies/config"
	"github.com/pthm-cable/birdies/neural"
	"github.com/pthm-cable/birdies/vmath"
)

// BrainSystem runs each animal's eye and brain and applies the resulting deltas.
type BrainSystem struct {
	animals ecs.Filter4[components.Position, components.Rotation, components.Speed, components.Senses]
	foods   ecs.Filter2[components.Position, components.Food]

	accel              neural.Accel
	speedMin, speedMax float64

	foodPos []vmath.Vec2
}

// NewBrainSystem creates a new brain system.
func NewBrainSystem(w *ecs.World, cfg *config.Config) *BrainSystem {
	return &BrainSystem{
		animals: *ecs.NewFilter4[components.Position, components.Rotation, components.Speed, components.Senses](w),
		foods:   *ecs.NewFilter2[components.Position, components.Food](w),
		accel: neural.Accel{
			Speed:    cfg.Animal.SpeedAccel,
			Rotation: cfg.Animal.RotationAccel,
		},
		speedMin: cfg.Animal.SpeedMin,
		speedMax: cfg.Animal.SpeedMax,
	}
}

// Update evaluates every brain against the current food layout.
func (s *BrainSystem) Update() {
	s.foodPos = s.foodPos[:0]
	foodQuery := s.foods.Query()
	for foodQuery.Next() {
		pos, _ := foodQuery.Get()
		s.foodPos = append(s.foodPos, pos.Vec2)
	}

	query := s.animals.Query()
	for query.Next() {
		pos, rot, speed, senses := query.Get()

		vision := senses.Eye.ProcessVision(pos.Vec2, rot.Angle, s.foodPos)
		dSpeed, dRotation := senses.Brain.Evaluate(vision, s.accel)

		speed.Value = vmath.Clamp(speed.Value+dSpeed, s.speedMin, s.speedMax)
		rot.Angle = vmath.WrapAngle(rot.Angle + dRotation)
	}
}
