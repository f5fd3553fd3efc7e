package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/autodiff/ops"
	"github.com/born-ml/miniflow/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input node with shape [batch_size, in_features]
//   - W is the weight leaf with shape [in_features, out_features]
//   - b is the bias leaf with shape [out_features]
//   - y is the output node with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
	out         autodiff.NodeID
}

// NewLinear declares name.weight, name.bias and the Linear node name over
// input.
func NewLinear(g *autodiff.Graph, name string, input autodiff.NodeID, inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear %q: invalid features %d -> %d", name, inFeatures, outFeatures)
	}
	weight, err := NewParameter(g, name+".weight",
		Xavier(rng, inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}))
	if err != nil {
		return nil, err
	}
	bias, err := NewParameter(g, name+".bias", Zeros(tensor.Shape{outFeatures}))
	if err != nil {
		return nil, err
	}
	out, err := g.AddNode(name, ops.NewLinearOp(), input, weight.ID(), bias.ID())
	if err != nil {
		return nil, err
	}
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		out:         out,
	}, nil
}

// Output returns the Linear node.
func (l *Linear) Output() autodiff.NodeID { return l.out }

// Parameters returns weight and bias.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter { return l.bias }

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int { return l.outFeatures }
