// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/miniflow/autodiff"
	"github.com/born-ml/miniflow/internal/nn"
	"github.com/born-ml/miniflow/tensor"
)

// Module interface defines the common interface for all network modules.
type Module = nn.Module

// Parameter represents a trainable leaf of a graph.
type Parameter = nn.Parameter

// NewParameter declares a placeholder and assigns it init.
func NewParameter(g *autodiff.Graph, name string, init *tensor.Tensor) (*Parameter, error) {
	return nn.NewParameter(g, name, init)
}

// TrainableIDs collects the parameter leaves of modules.
func TrainableIDs(modules ...Module) []autodiff.NodeID {
	return nn.TrainableIDs(modules...)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear declares a linear layer with Xavier weights and zero bias.
//
// Example:
//
//	layer, err := nn.NewLinear(g, "fc", x, 784, 128, rand.New(rand.NewSource(1)))
func NewLinear(g *autodiff.Graph, name string, input autodiff.NodeID, inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	return nn.NewLinear(g, name, input, inFeatures, outFeatures, rng)
}

// Activations

// Sigmoid represents the sigmoid activation.
type Sigmoid = nn.Sigmoid

// NewSigmoid declares a sigmoid node over input.
func NewSigmoid(g *autodiff.Graph, name string, input autodiff.NodeID) *Sigmoid {
	return nn.NewSigmoid(g, name, input)
}

// Initializers

// Xavier returns a tensor drawn from the Glorot uniform distribution.
func Xavier(rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape) *tensor.Tensor {
	return nn.Xavier(rng, fanIn, fanOut, shape)
}

// Normal returns a tensor drawn from N(0, std²).
func Normal(rng *rand.Rand, shape tensor.Shape, std float64) *tensor.Tensor {
	return nn.Normal(rng, shape, std)
}
