// Package components defines ECS components for the simulation.
package components

import (
	"github.com/pthm-cable/birdies/neural"
	"github.com/pthm-cable/birdies/vmath"
)

// Position represents an entity's position in [0,1)^2.
type Position struct {
	vmath.Vec2
}

// Rotation represents an animal's heading in radians, wrapped to [-Pi, Pi).
// Zero faces +y.
type Rotation struct {
	Angle float64
}

// Speed is distance travelled per step.
type Speed struct {
	Value float64
}

// Satiation counts food eaten since birth.
type Satiation struct {
	Count int
}

// Senses holds an animal's eye and brain. Both are exclusive to the animal.
type Senses struct {
	Eye   neural.Eye
	Brain *neural.Brain
}

// Food marks a food entity. Eaten counts how often it has been consumed and respawned.
type Food struct {
	Eaten int
}
