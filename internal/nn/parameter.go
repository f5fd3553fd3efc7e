package nn

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/tensor"
)

// Parameter is a trainable leaf of a graph.
//
// Example:
//
//	weight, err := nn.NewParameter(g, "weight", nn.Xavier(rng, 2, 1, tensor.Shape{2, 1}))
//
//	// After a backward pass
//	grad := weight.Grad(g)
type Parameter struct {
	name string
	id   autodiff.NodeID
}

// NewParameter declares a placeholder named name and assigns it init.
func NewParameter(g *autodiff.Graph, name string, init *tensor.Tensor) (*Parameter, error) {
	id := g.Placeholder(name)
	if err := g.SetValue(id, init); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	return &Parameter{name: name, id: id}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// ID returns the parameter's leaf.
func (p *Parameter) ID() autodiff.NodeID {
	return p.id
}

// Value returns the parameter's current value in g.
func (p *Parameter) Value(g *autodiff.Graph) *tensor.Tensor {
	return g.Value(p.id)
}

// Grad returns the gradient from the last backward pass, or nil.
func (p *Parameter) Grad(g *autodiff.Graph) *tensor.Tensor {
	return g.Gradient(p.id, p.id)
}
