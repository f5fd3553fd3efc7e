package autodiff

import (
	"fmt"
	"slices"

	"github.com/born-ml/miniflow/internal/autodiff/ops"
	"github.com/born-ml/miniflow/internal/tensor"
)

// NodeID is the stable index of a node in its Graph. IDs follow declaration
// order, so every input of a node has a smaller ID than the node itself.
type NodeID int

// Node is a unit of computation: an operator, its input links, consumer
// back-links, the value from the last forward pass and the gradients from the
// last backward pass.
type Node struct {
	id        NodeID
	name      string
	op        ops.Operation
	inputs    []NodeID // fixed at construction
	consumers []NodeID // grows as later nodes name this one as an input

	value     *tensor.Tensor
	gradients map[NodeID]*tensor.Tensor
}

// ID returns the node's index in the graph.
func (n *Node) ID() NodeID { return n.id }

// Name returns the diagnostic name.
func (n *Node) Name() string { return n.name }

// Kind returns the operator variant.
func (n *Node) Kind() ops.Kind {
	if n.op == nil {
		return ops.KindInvalid
	}
	return n.op.Kind()
}

// IsLeaf reports whether the node is a placeholder.
func (n *Node) IsLeaf() bool { return n.Kind() == ops.KindLeaf }

// Inputs returns a copy of the input IDs in declaration order.
func (n *Node) Inputs() []NodeID { return slices.Clone(n.inputs) }

// Consumers returns a copy of the consumer IDs in declaration order.
func (n *Node) Consumers() []NodeID { return slices.Clone(n.consumers) }

// Value returns the value from the last forward pass (nil before the first).
func (n *Node) Value() *tensor.Tensor { return n.value }

// Gradient returns the gradient this node assigned to wrt in the last
// backward pass, or nil.
func (n *Node) Gradient(wrt NodeID) *tensor.Tensor {
	return n.gradients[wrt]
}

// String formats the node as Kind(name=...).
func (n *Node) String() string {
	return fmt.Sprintf("%s(name=%s)", n.Kind(), n.name)
}

// addConsumer records c once, however many times c lists n as an input.
func (n *Node) addConsumer(c NodeID) {
	if !slices.Contains(n.consumers, c) {
		n.consumers = append(n.consumers, c)
	}
}
