package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/miniflow/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
//
// Parameters:
//   - rng: Source of randomness; callers seed it for reproducible runs
//   - fanIn: Number of input units
//   - fanOut: Number of output units
//   - shape: Shape of the weight tensor
//
// Returns a tensor initialized with Xavier distribution.
func Xavier(rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return t
}

// Normal creates a tensor with values drawn from N(0, std²).
func Normal(rng *rand.Rand, shape tensor.Shape, std float64) *tensor.Tensor {
	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = rng.NormFloat64() * std
	}
	return t
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape tensor.Shape) *tensor.Tensor {
	return tensor.Ones(shape)
}
