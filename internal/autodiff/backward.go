package autodiff

import (
	"fmt"
	"slices"

	"github.com/born-ml/miniflow/internal/tensor"
	"k8s.io/klog/v2"
)

// Backward differentiates loss with respect to every node of order, visiting
// the order back to front so each node runs after all of its consumers.
//
// Algorithm:
//  1. The loss node is seeded with ones (dL/dL = 1). Any other node without
//     consumers is seeded with zeros, since L does not depend on it.
//  2. Every other node's upstream gradient is the sum of the gradients its
//     consumers assigned to it.
//  3. The node's operator turns the upstream gradient into one gradient per
//     input (or, for a leaf, a gradient with respect to itself).
//  4. Gradients for an input listed more than once are accumulated.
func (g *Graph) Backward(order []NodeID, loss NodeID) error {
	if !slices.Contains(order, loss) {
		return fmt.Errorf("backward: %w: loss node %d is not in the order", ErrUnknownNode, loss)
	}
	for i := len(order) - 1; i >= 0; i-- {
		n, err := g.Node(order[i])
		if err != nil {
			return fmt.Errorf("backward: %w", err)
		}
		if err := g.backwardNode(n, loss); err != nil {
			return fmt.Errorf("backward %s: %w", n, err)
		}
	}
	return nil
}

func (g *Graph) backwardNode(n *Node, loss NodeID) error {
	if n.op == nil {
		return ErrNotImplemented
	}
	if n.value == nil {
		return fmt.Errorf("%w: backward before forward", ErrUninitialized)
	}

	upstream, err := g.upstreamGradient(n, loss)
	if err != nil {
		return err
	}
	inputs, err := g.inputValues(n)
	if err != nil {
		return err
	}
	grads, err := n.op.Backward(inputs, n.value, upstream)
	if err != nil {
		return err
	}

	n.gradients = make(map[NodeID]*tensor.Tensor, len(n.inputs)+1)
	if n.IsLeaf() {
		n.gradients[n.id] = grads[0]
	} else {
		for i, in := range n.inputs {
			if err := accumulate(n.gradients, in, grads[i]); err != nil {
				return err
			}
		}
	}

	if klogV := klog.V(5); klogV.Enabled() {
		klogV.InfoS("Backward", "node", n.String(), "consumers", len(n.consumers))
	}
	return nil
}

// upstreamGradient returns dL/d(n): ones for the loss itself, otherwise the
// sum of the gradients n's consumers assigned to n.
func (g *Graph) upstreamGradient(n *Node, loss NodeID) (*tensor.Tensor, error) {
	switch {
	case n.id == loss:
		return tensor.OnesLike(n.value), nil
	case len(n.consumers) == 0:
		return tensor.ZerosLike(n.value), nil
	}

	var sum *tensor.Tensor
	for _, c := range n.consumers {
		consumer := g.nodes[c]
		grad := consumer.gradients[n.id]
		if grad == nil {
			return nil, fmt.Errorf("%w: consumer %s has no gradient for this node", ErrUninitialized, consumer)
		}
		if sum == nil {
			sum = grad.Clone()
			continue
		}
		if err := sum.AddInPlace(grad); err != nil {
			return nil, fmt.Errorf("gradient from %s: %w", consumer, err)
		}
	}
	return sum, nil
}

func accumulate(grads map[NodeID]*tensor.Tensor, id NodeID, grad *tensor.Tensor) error {
	existing, ok := grads[id]
	if !ok {
		grads[id] = grad
		return nil
	}
	return existing.AddInPlace(grad)
}
