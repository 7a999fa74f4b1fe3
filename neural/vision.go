package neural

import (
	"fmt"
	"math"

	"github.com/pthm-cable/birdies/vmath"
)

// Default eye parameters.
const (
	DefaultFOVRange = 0.25
	DefaultFOVAngle = math.Pi + math.Pi/4
	DefaultCells    = 9
)

// Eye converts nearby food into a per-sector energy histogram relative to heading.
// Sectors span the field of view left to right in increasing angle order.
type Eye struct {
	fovRange float64
	fovAngle float64
	cells    int
}

// NewEye panics unless every parameter is positive.
func NewEye(fovRange, fovAngle float64, cells int) Eye {
	if !(fovRange > 0) {
		panic(fmt.Sprintf("neural: eye fov range must be positive, got %g", fovRange))
	}
	if !(fovAngle > 0) {
		panic(fmt.Sprintf("neural: eye fov angle must be positive, got %g", fovAngle))
	}
	if cells <= 0 {
		panic(fmt.Sprintf("neural: eye needs at least one cell, got %d", cells))
	}
	return Eye{fovRange: fovRange, fovAngle: fovAngle, cells: cells}
}

// DefaultEye returns an eye with range 0.25, angle 1.25pi and 9 cells.
func DefaultEye() Eye {
	return NewEye(DefaultFOVRange, DefaultFOVAngle, DefaultCells)
}

// Cells returns the histogram length.
func (e Eye) Cells() int { return e.cells }

// FOVRange returns the maximum (exclusive) sight distance.
func (e Eye) FOVRange() float64 { return e.fovRange }

// FOVAngle returns the total angular width of the field of view.
func (e Eye) FOVAngle() float64 { return e.fovAngle }

// ProcessVision returns Cells() non-negative energies for the given food positions.
func (e Eye) ProcessVision(position vmath.Vec2, rotation float64, foods []vmath.Vec2) []float64 {
	cells := make([]float64, e.cells)
	halfFOV := e.fovAngle / 2

	for _, food := range foods {
		delta := food.Sub(position)
		dist := delta.Norm()
		if dist >= e.fovRange {
			continue
		}

		angle := vmath.WrapAngle(vmath.AngleFromForward(delta) - rotation)
		if angle < -halfFOV || angle > halfFOV {
			continue
		}

		// Shift to [0, fovAngle], normalize, then scale to a cell index.
		// angle == halfFOV would land on e.cells.
		cell := int(math.Floor((angle + halfFOV) / e.fovAngle * float64(e.cells)))
		cell = min(cell, e.cells-1)

		cells[cell] += (e.fovRange - dist) / e.fovRange
	}

	return cells
}
