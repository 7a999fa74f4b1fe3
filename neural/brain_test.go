package neural

import (
	"math"
	"math/rand"
	"testing"
)

func TestBrainTopology(t *testing.T) {
	topo := BrainTopology(DefaultEye())
	want := []int{9, 18, 2}
	if len(topo) != len(want) {
		t.Fatalf("got %d layers, want %d", len(topo), len(want))
	}
	for i, l := range topo {
		if l.Neurons != want[i] {
			t.Errorf("layer %d has %d neurons, want %d", i, l.Neurons, want[i])
		}
	}
}

func TestBrainChromosomeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	eye := DefaultEye()
	a := RandomBrain(rng, eye)

	genome := a.Chromosome()
	// 18*(9+1) + 2*(18+1)
	if len(genome) != 218 {
		t.Fatalf("genome length = %d, want 218", len(genome))
	}

	b := BrainFromChromosome(genome, eye)
	vision := make([]float64, eye.Cells())
	for i := range vision {
		vision[i] = float64(i) / 10
	}
	accel := Accel{Speed: 0.2, Rotation: math.Pi / 2}
	sa, ra := a.Evaluate(vision, accel)
	sb, rb := b.Evaluate(vision, accel)
	if sa != sb || ra != rb {
		t.Errorf("rebuilt brain differs: (%g, %g) vs (%g, %g)", sa, ra, sb, rb)
	}
}

func TestBrainEvaluateClamps(t *testing.T) {
	eye := NewEye(0.25, math.Pi, 1)
	accel := Accel{Speed: 0.2, Rotation: math.Pi / 2}

	// hidden = relu(1 + x), relu(1 + x); outputs = bias + weights . hidden
	base := []float64{
		1, 1,
		1, 1,
	}

	tests := []struct {
		name      string
		outputs   []float64 // [bias, w0, w1] for each output neuron
		wantSpeed float64
		wantRot   float64
	}{
		{"large positive", []float64{10, 0, 0, 10, 0, 0}, 0.2, math.Pi / 2},
		{"large negative", []float64{-10, 0, 0, -10, 0, 0}, -0.2, -math.Pi / 2},
		{"within range", []float64{0.1, 0, 0, -0.5, 0, 0}, 0.1, -0.5},
		{"zero", []float64{0, 0, 0, 0, 0, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genome := append(append([]float64(nil), base...), tt.outputs...)
			b := BrainFromChromosome(genome, eye)
			s, r := b.Evaluate([]float64{0.5}, accel)
			if math.Abs(s-tt.wantSpeed) > 1e-12 || math.Abs(r-tt.wantRot) > 1e-12 {
				t.Errorf("Evaluate = (%g, %g), want (%g, %g)", s, r, tt.wantSpeed, tt.wantRot)
			}
		})
	}
}

func TestBrainFromChromosomeWrongLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for short genome")
		}
	}()
	BrainFromChromosome(make([]float64, 10), DefaultEye())
}

type fixedEvaluator []float64

func (f fixedEvaluator) Propagate([]float64) []float64 { return f }
func (f fixedEvaluator) Weights() []float64            { return nil }

func TestBrainWithCustomEvaluator(t *testing.T) {
	b := NewBrain(fixedEvaluator{0.05, -3})
	s, r := b.Evaluate(nil, Accel{Speed: 0.2, Rotation: math.Pi / 2})
	if s != 0.05 || r != -math.Pi/2 {
		t.Errorf("Evaluate = (%g, %g), want (0.05, %g)", s, r, -math.Pi/2)
	}
}
