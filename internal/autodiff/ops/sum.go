package ops

import (
	"errors"
	"fmt"

	"github.com/born-ml/miniflow/internal/tensor"
)

// SumOp represents an element-wise sum over N inputs: output = a + b + ...
//
// Backward pass:
//   - d(a+b+...)/da = 1, so every input receives outputGrad unchanged.
//
// All inputs must share one shape; no broadcasting is performed.
type SumOp struct{}

// NewSumOp creates a new SumOp.
func NewSumOp() *SumOp {
	return &SumOp{}
}

// Kind returns KindSum.
func (op *SumOp) Kind() Kind { return KindSum }

// Arity returns Variadic.
func (op *SumOp) Arity() int { return Variadic }

// Forward adds all inputs element-wise.
func (op *SumOp) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	if len(inputs) == 0 {
		return nil, errors.New("sum: no inputs")
	}
	out := inputs[0].Clone()
	for _, in := range inputs[1:] {
		if err := out.AddInPlace(in); err != nil {
			return nil, fmt.Errorf("sum: %w", err)
		}
	}
	return out, nil
}

// Backward passes outputGrad through to every input.
func (op *SumOp) Backward(inputs []*tensor.Tensor, _, outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	grads := make([]*tensor.Tensor, len(inputs))
	for i := range inputs {
		// Each input owns its gradient; never alias outputGrad.
		grads[i] = outputGrad.Clone()
	}
	return grads, nil
}
