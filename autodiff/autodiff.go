// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over a
// static computational graph.
//
// Nodes are declared once; each pass feeds placeholder values, orders the
// reachable nodes, evaluates them front to back and differentiates them back
// to front.
//
// Example:
//
//	import (
//	    "github.com/born-ml/miniflow/autodiff"
//	    "github.com/born-ml/miniflow/tensor"
//	)
//
//	func main() {
//	    g := autodiff.New()
//	    x, w, b, y := g.Placeholder("x"), g.Placeholder("w"), g.Placeholder("b"), g.Placeholder("y")
//	    loss := g.MSE("loss", y, g.Sigmoid("s", g.Linear("l", x, w, b)))
//
//	    order, _ := g.TopologicalSort(autodiff.Feed{
//	        x: tensor.MustFromRows([][]float64{{1, 2}}),
//	        w: tensor.MustFromRows([][]float64{{1}, {1}}),
//	        b: tensor.Vector(0),
//	        y: tensor.MustFromRows([][]float64{{1}}),
//	    })
//	    _ = g.ForwardAndBackward(order, loss)
//
//	    fmt.Println(g.Value(loss), g.Gradient(w, w))
//	}
package autodiff

import (
	"github.com/born-ml/miniflow/internal/autodiff"
)

// Graph is an arena of nodes with fixed topology.
type Graph = autodiff.Graph

// Node is a unit of computation in a Graph.
type Node = autodiff.Node

// NodeID identifies a node within its Graph.
type NodeID = autodiff.NodeID

// Feed maps placeholders to the values injected before a pass.
type Feed = autodiff.Feed

// Adjacency maps every node reachable from a feed to its consumers.
type Adjacency = autodiff.Adjacency

// SortOption configures Sort.
type SortOption = autodiff.SortOption

// Errors returned by graph construction and passes.
var (
	ErrCycleDetected  = autodiff.ErrCycleDetected
	ErrShapeMismatch  = autodiff.ErrShapeMismatch
	ErrUninitialized  = autodiff.ErrUninitialized
	ErrNotImplemented = autodiff.ErrNotImplemented
	ErrNotLeaf        = autodiff.ErrNotLeaf
	ErrUnknownNode    = autodiff.ErrUnknownNode
)

// New creates an empty graph.
func New() *Graph {
	return autodiff.New()
}

// Sort orders the nodes of adj so that producers precede their consumers.
func Sort(adj Adjacency, opts ...SortOption) ([]NodeID, error) {
	return autodiff.Sort(adj, opts...)
}

// WithLess sets the tie-break among nodes that become ready together.
func WithLess(less func(a, b NodeID) bool) SortOption {
	return autodiff.WithLess(less)
}
