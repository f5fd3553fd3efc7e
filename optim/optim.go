// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/miniflow/autodiff"
	"github.com/born-ml/miniflow/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD (Stochastic Gradient Descent)

// SGD represents the plain gradient descent optimizer.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// DefaultLR is the learning rate used when SGDConfig.LR is zero.
const DefaultLR = optim.DefaultLR

// NewSGD creates a new SGD optimizer over the given trainable leaves.
//
// Example:
//
//	sgd := optim.NewSGD([]autodiff.NodeID{w, b}, optim.SGDConfig{LR: 0.1})
//	if err := sgd.Step(g); err != nil {
//	    return err
//	}
func NewSGD(trainables []autodiff.NodeID, config SGDConfig) *SGD {
	return optim.NewSGD(trainables, config)
}
