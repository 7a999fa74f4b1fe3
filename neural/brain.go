package neural

import (
	"math/rand"

	"github.com/pthm-cable/birdies/vmath"
)

// Accel bounds the per-step change a brain may request.
type Accel struct {
	Speed    float64
	Rotation float64
}

// Brain maps an eye's histogram to relative speed and rotation changes.
type Brain struct {
	nn Evaluator
}

// BrainTopology returns [cells, 2*cells, 2] for the eye.
func BrainTopology(eye Eye) []LayerTopology {
	return []LayerTopology{
		{Neurons: eye.Cells()},
		{Neurons: 2 * eye.Cells()},
		{Neurons: 2},
	}
}

// RandomBrain creates a brain with fresh random weights sized for eye.
func RandomBrain(rng *rand.Rand, eye Eye) *Brain {
	return &Brain{nn: RandomNetwork(rng, BrainTopology(eye))}
}

// BrainFromChromosome replays a flat genome into the topology for eye.
// It panics if the genome length does not match.
func BrainFromChromosome(chromosome []float64, eye Eye) *Brain {
	return &Brain{nn: NetworkFromWeights(BrainTopology(eye), chromosome)}
}

// NewBrain wraps any evaluator with two outputs.
func NewBrain(nn Evaluator) *Brain {
	return &Brain{nn: nn}
}

// Chromosome returns the brain's weights as a flat genome.
func (b *Brain) Chromosome() []float64 {
	return b.nn.Weights()
}

// Evaluate returns clamped speed and rotation deltas for a vision histogram.
// Zero deltas keep the current speed and heading.
func (b *Brain) Evaluate(vision []float64, accel Accel) (speedDelta, rotationDelta float64) {
	out := b.nn.Propagate(vision)
	speedDelta = vmath.Clamp(out[0], -accel.Speed, accel.Speed)
	rotationDelta = vmath.Clamp(out[1], -accel.Rotation, accel.Rotation)
	return speedDelta, rotationDelta
}
