// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides parameter updates for MiniFlow graphs.
//
// # Overview
//
// This package contains:
//   - SGD: plain gradient descent over a designated set of trainable leaves
//   - Optimizer interface for custom update rules
//
// # Training Loop Pattern
//
//	sgd := optim.NewSGD([]autodiff.NodeID{w, b}, optim.SGDConfig{LR: 0.1})
//
//	for step := range numSteps {
//	    // 1. Feed a batch and order the graph
//	    order, err := g.TopologicalSort(autodiff.Feed{x: batchX, y: batchY, w: nil, b: nil})
//
//	    // 2. Forward and backward passes
//	    err = g.ForwardAndBackward(order, loss)
//
//	    // 3. Update parameters in place
//	    err = sgd.Step(g)
//	}
package optim
