// Package optim implements parameter updates for graphs trained with
// internal/autodiff.
//
// An optimizer reads the self-gradient that Backward leaves on each trainable
// leaf and rewrites the leaf's value in place.
//
// Example usage:
//
//	sgd := optim.NewSGD([]autodiff.NodeID{w, b}, optim.SGDConfig{LR: 0.1})
//
//	for step := range steps {
//	    if err := g.ForwardAndBackward(order, loss); err != nil {
//	        return err
//	    }
//	    if err := sgd.Step(g); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/tensor"
)

// Optimizer is the base interface for update rules.
type Optimizer interface {
	// Step applies one update to every trainable leaf of g. Backward must have
	// run over an order that includes the trainables.
	Step(g *autodiff.Graph) error

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// trainable resolves id to a leaf with a value and a self-gradient of the
// same shape.
func trainable(g *autodiff.Graph, id autodiff.NodeID) (value, grad *tensor.Tensor, err error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, nil, err
	}
	if !n.IsLeaf() {
		return nil, nil, fmt.Errorf("trainable %s: %w", n, autodiff.ErrNotLeaf)
	}
	value = n.Value()
	grad = n.Gradient(id)
	if value == nil || grad == nil {
		return nil, nil, fmt.Errorf("trainable %s: %w: no value or gradient", n, autodiff.ErrUninitialized)
	}
	if !value.Shape().Equal(grad.Shape()) {
		return nil, nil, fmt.Errorf("trainable %s: %w: value %v vs gradient %v",
			n, autodiff.ErrShapeMismatch, value.Shape(), grad.Shape())
	}
	return value, grad, nil
}
