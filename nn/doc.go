// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides network building blocks declared on a MiniFlow graph.
//
// # Overview
//
// A module adds its parameter leaves and compute nodes to the graph when it
// is constructed, and initializes the parameters right away:
//   - Linear: fully connected layer (Xavier weights, zero bias)
//   - Sigmoid: element-wise activation
//   - Xavier, Normal, Zeros, Ones: parameter initializers
//
// # Basic Usage
//
//	g := autodiff.New()
//	x, y := g.Placeholder("x"), g.Placeholder("y")
//	rng := rand.New(rand.NewSource(1))
//
//	hidden, _ := nn.NewLinear(g, "hidden", x, 2, 4, rng)
//	act := nn.NewSigmoid(g, "act", hidden.Output())
//	out, _ := nn.NewLinear(g, "out", act.Output(), 4, 1, rng)
//	loss := g.MSE("loss", y, out.Output())
//
//	trainables := nn.TrainableIDs(hidden, out)
//	order, _ := g.TopologicalSort(autodiff.Feed{x: batchX, y: batchY}.Retain(trainables...))
package nn
