// Package autodiff implements a static computation graph with forward
// evaluation and reverse-mode automatic differentiation.
//
// Architecture:
//   - Arena: a Graph owns every Node; nodes refer to each other by NodeID
//   - Operators: each Node carries one ops.Operation from a closed set
//     (Placeholder, Sum, Linear, Sigmoid, MSE)
//   - Builder: Build walks forward from the fed leaves and returns the
//     producer→consumer Adjacency of everything reachable
//   - Scheduler: Sort linearizes the Adjacency so inputs precede consumers
//   - Driver: Forward visits the order front to back, Backward back to front
//
// Usage:
//
//	g := autodiff.New()
//	x := g.Placeholder("x")
//	w := g.Placeholder("w")
//	b := g.Placeholder("b")
//	y := g.Placeholder("y")
//	out := g.Sigmoid("out", g.Linear("l1", x, w, b))
//	loss := g.MSE("loss", y, out)
//
//	order, err := g.TopologicalSort(autodiff.Feed{x: xs, w: w0, b: b0, y: ys})
//	if err != nil { ... }
//	if err := g.ForwardAndBackward(order, loss); err != nil { ... }
//	fmt.Println(g.Value(loss), g.Gradient(w, w))
package autodiff

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/autodiff/ops"
	"github.com/born-ml/miniflow/internal/tensor"
)

// Feed maps leaf nodes to the values injected before a pass.
type Feed map[NodeID]*tensor.Tensor

// Retain adds ids with nil values, so Build traverses them while they keep
// their current values. Existing entries are not replaced. Returns f.
func (f Feed) Retain(ids ...NodeID) Feed {
	for _, id := range ids {
		if _, ok := f[id]; !ok {
			f[id] = nil
		}
	}
	return f
}

// Graph is an arena of nodes. Topology is fixed once declared; only node
// values and gradients change between passes.
//
// A Graph is not safe for concurrent passes.
type Graph struct {
	nodes  []*Node
	byName map[string]NodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{byName: make(map[string]NodeID)}
}

// AddNode appends a node computing op over inputs and registers it as a
// consumer of each input. Inputs must already exist in the graph, which makes
// a cycle impossible to declare.
func (g *Graph) AddNode(name string, op ops.Operation, inputs ...NodeID) (NodeID, error) {
	if op == nil {
		return 0, fmt.Errorf("node %q: %w: no operator", name, ErrNotImplemented)
	}
	if k := op.Kind(); k <= ops.KindInvalid || k > ops.KindMSE {
		return 0, fmt.Errorf("node %q: %w: operator kind %d", name, ErrNotImplemented, k)
	}
	if err := ops.CheckArity(op, len(inputs)); err != nil {
		return 0, fmt.Errorf("node %q: %w", name, err)
	}
	for _, in := range inputs {
		if !g.has(in) {
			return 0, fmt.Errorf("node %q: input %d: %w", name, in, ErrUnknownNode)
		}
	}

	id := NodeID(len(g.nodes))
	n := &Node{
		id:     id,
		name:   name,
		op:     op,
		inputs: append([]NodeID(nil), inputs...),
	}
	g.nodes = append(g.nodes, n)
	for _, in := range inputs {
		g.nodes[in].addConsumer(id)
	}
	if name != "" {
		if _, dup := g.byName[name]; !dup {
			g.byName[name] = id
		}
	}
	return id, nil
}

// mustAdd panics on construction errors; they are programming errors in the
// model declaration.
func (g *Graph) mustAdd(name string, op ops.Operation, inputs ...NodeID) NodeID {
	id, err := g.AddNode(name, op, inputs...)
	if err != nil {
		panic(err)
	}
	return id
}

// Placeholder declares a leaf whose value is supplied through a Feed. Both
// data inputs and trainable parameters are placeholders.
func (g *Graph) Placeholder(name string) NodeID {
	return g.mustAdd(name, ops.NewLeafOp())
}

// Sum declares an element-wise sum of one or more inputs.
func (g *Graph) Sum(name string, inputs ...NodeID) NodeID {
	return g.mustAdd(name, ops.NewSumOp(), inputs...)
}

// Linear declares data @ weights + bias.
func (g *Graph) Linear(name string, data, weights, bias NodeID) NodeID {
	return g.mustAdd(name, ops.NewLinearOp(), data, weights, bias)
}

// Sigmoid declares an element-wise sigmoid.
func (g *Graph) Sigmoid(name string, x NodeID) NodeID {
	return g.mustAdd(name, ops.NewSigmoidOp(), x)
}

// MSE declares the mean-squared-error loss between target and prediction.
func (g *Graph) MSE(name string, target, prediction NodeID) NodeID {
	return g.mustAdd(name, ops.NewMSEOp(), target, prediction)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, error) {
	if !g.has(id) {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return g.nodes[id], nil
}

// Lookup finds a node by name. The first node declared with a name wins.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Value returns the current value of a node, or nil before its first forward.
func (g *Graph) Value(id NodeID) *tensor.Tensor {
	if !g.has(id) {
		return nil
	}
	return g.nodes[id].value
}

// Gradient returns the gradient node `of` computed with respect to `wrt` in
// the last backward pass. For leaves, Gradient(leaf, leaf) is the accumulated
// gradient of the loss with respect to the leaf.
func (g *Graph) Gradient(of, wrt NodeID) *tensor.Tensor {
	if !g.has(of) {
		return nil
	}
	return g.nodes[of].Gradient(wrt)
}

// SetValue injects a value into a leaf.
func (g *Graph) SetValue(id NodeID, value *tensor.Tensor) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if !n.IsLeaf() {
		return fmt.Errorf("set value of %s: %w", n, ErrNotLeaf)
	}
	n.value = value
	return nil
}

func (g *Graph) has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}
