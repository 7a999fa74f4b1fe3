// Package neural provides the feed-forward brains and radial eyes of animals.
package neural

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Evaluator is what a Brain needs from its network: evaluation and a flat
// weight sequence that a constructor can replay.
type Evaluator interface {
	Propagate(inputs []float64) []float64
	Weights() []float64
}

// LayerTopology describes one layer of a Network.
type LayerTopology struct {
	Neurons int
}

// layer maps an input vector to an output vector: out = weights*in + bias.
type layer struct {
	weights *mat.Dense    // neurons x inputs
	bias    *mat.VecDense // neurons
}

// Network is a fixed-topology fully connected feed-forward network.
// Hidden layers use ReLU, the output layer is linear.
//
// Flat weight order, used by both Weights and NetworkFromWeights:
// for each layer, for each neuron: bias, then one weight per input.
type Network struct {
	layers []layer
}

func validateTopology(layers []LayerTopology) {
	if len(layers) < 2 {
		panic(fmt.Sprintf("neural: network needs at least 2 layers, got %d", len(layers)))
	}
	for i, l := range layers {
		if l.Neurons <= 0 {
			panic(fmt.Sprintf("neural: layer %d has %d neurons", i, l.Neurons))
		}
	}
}

// RandomNetwork builds a network with every bias and weight uniform in [-1, 1].
func RandomNetwork(rng *rand.Rand, layers []LayerTopology) *Network {
	validateTopology(layers)
	return buildNetwork(layers, func() float64 {
		return rng.Float64()*2 - 1
	})
}

// NetworkFromWeights rebuilds a network from the flat sequence returned by Weights.
// It panics if the sequence is too short or too long for the topology.
func NetworkFromWeights(layers []LayerTopology, weights []float64) *Network {
	validateTopology(layers)
	if want := WeightCount(layers); len(weights) != want {
		panic(fmt.Sprintf("neural: topology needs %d weights, got %d", want, len(weights)))
	}
	i := 0
	return buildNetwork(layers, func() float64 {
		w := weights[i]
		i++
		return w
	})
}

// WeightCount returns the genome length for a topology.
func WeightCount(layers []LayerTopology) int {
	n := 0
	for i := 1; i < len(layers); i++ {
		n += layers[i].Neurons * (layers[i-1].Neurons + 1)
	}
	return n
}

func buildNetwork(layers []LayerTopology, next func() float64) *Network {
	nn := &Network{layers: make([]layer, 0, len(layers)-1)}
	for i := 1; i < len(layers); i++ {
		in, out := layers[i-1].Neurons, layers[i].Neurons
		l := layer{
			weights: mat.NewDense(out, in, nil),
			bias:    mat.NewVecDense(out, nil),
		}
		for n := 0; n < out; n++ {
			l.bias.SetVec(n, next())
			for w := 0; w < in; w++ {
				l.weights.Set(n, w, next())
			}
		}
		nn.layers = append(nn.layers, l)
	}
	return nn
}

// Inputs returns the size of the input layer.
func (nn *Network) Inputs() int {
	_, c := nn.layers[0].weights.Dims()
	return c
}

// Propagate evaluates the network. It panics if len(inputs) != Inputs().
func (nn *Network) Propagate(inputs []float64) []float64 {
	if len(inputs) != nn.Inputs() {
		panic(fmt.Sprintf("neural: network expects %d inputs, got %d", nn.Inputs(), len(inputs)))
	}

	x := mat.NewVecDense(len(inputs), append([]float64(nil), inputs...))
	last := len(nn.layers) - 1
	for i, l := range nn.layers {
		var y mat.VecDense
		y.MulVec(l.weights, x)
		y.AddVec(&y, l.bias)
		if i != last {
			relu(&y)
		}
		x = &y
	}

	out := make([]float64, x.Len())
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}

func relu(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 {
			v.SetVec(i, 0)
		}
	}
}

// Weights flattens every bias and weight into one sequence.
func (nn *Network) Weights() []float64 {
	var out []float64
	for _, l := range nn.layers {
		rows, cols := l.weights.Dims()
		for n := 0; n < rows; n++ {
			out = append(out, l.bias.AtVec(n))
			for w := 0; w < cols; w++ {
				out = append(out, l.weights.At(n, w))
			}
		}
	}
	return out
}
