package ops

import "github.com/born-ml/miniflow/internal/tensor"

// LeafOp marks an input node: a data placeholder or a trainable parameter.
// Its value is injected from outside through the graph feed.
type LeafOp struct{}

// NewLeafOp creates a leaf operator.
func NewLeafOp() *LeafOp {
	return &LeafOp{}
}

// Kind returns KindLeaf.
func (op *LeafOp) Kind() Kind { return KindLeaf }

// Arity returns 0.
func (op *LeafOp) Arity() int { return 0 }

// Forward produces no value; the node retains the injected one.
func (op *LeafOp) Forward(_ []*tensor.Tensor) (*tensor.Tensor, error) {
	return nil, nil
}

// Backward returns the gradient with respect to the leaf itself, which is the
// upstream gradient scaled by the identity.
func (op *LeafOp) Backward(_ []*tensor.Tensor, _, outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	return []*tensor.Tensor{outputGrad.Clone()}, nil
}
