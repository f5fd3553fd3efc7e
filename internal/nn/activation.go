package nn

import (
	"github.com/born-ml/miniflow/internal/autodiff"
)

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: f(x) = 1 / (1 + exp(-x))
type Sigmoid struct {
	out autodiff.NodeID
}

// NewSigmoid declares a Sigmoid node over input.
func NewSigmoid(g *autodiff.Graph, name string, input autodiff.NodeID) *Sigmoid {
	return &Sigmoid{out: g.Sigmoid(name, input)}
}

// Output returns the Sigmoid node.
func (s *Sigmoid) Output() autodiff.NodeID { return s.out }

// Parameters returns an empty slice (Sigmoid has no trainable parameters).
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}
