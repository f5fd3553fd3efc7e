package autodiff

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/tensor"
	"k8s.io/klog/v2"
)

// Forward evaluates every node of order front to back. order must list inputs
// before their consumers, as returned by Sort.
func (g *Graph) Forward(order []NodeID) error {
	for _, id := range order {
		n, err := g.Node(id)
		if err != nil {
			return fmt.Errorf("forward: %w", err)
		}
		if err := g.forwardNode(n); err != nil {
			return fmt.Errorf("forward %s: %w", n, err)
		}
	}
	return nil
}

// ForwardAndBackward runs Forward then Backward over the same order,
// differentiating loss.
func (g *Graph) ForwardAndBackward(order []NodeID, loss NodeID) error {
	if err := g.Forward(order); err != nil {
		return err
	}
	return g.Backward(order, loss)
}

func (g *Graph) forwardNode(n *Node) error {
	if n.op == nil {
		return ErrNotImplemented
	}

	// Gradients from an earlier pass are stale once the value changes.
	n.gradients = nil

	inputs, err := g.inputValues(n)
	if err != nil {
		return err
	}
	out, err := n.op.Forward(inputs)
	if err != nil {
		return err
	}
	if out != nil {
		n.value = out
	}
	if n.value == nil {
		return fmt.Errorf("%w: no value was ever fed", ErrUninitialized)
	}

	if klogV := klog.V(5); klogV.Enabled() {
		klogV.InfoS("Forward", "node", n.String(), "shape", n.value.Shape())
	}
	return nil
}

func (g *Graph) inputValues(n *Node) ([]*tensor.Tensor, error) {
	values := make([]*tensor.Tensor, len(n.inputs))
	for i, in := range n.inputs {
		v := g.nodes[in].value
		if v == nil {
			return nil, fmt.Errorf("%w: input %s has no value", ErrUninitialized, g.nodes[in])
		}
		values[i] = v
	}
	return values, nil
}
