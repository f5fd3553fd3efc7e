package ops

import (
	"fmt"
	"math"

	"github.com/born-ml/miniflow/internal/tensor"
)

// SigmoidOp represents the sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
type SigmoidOp struct{}

// NewSigmoidOp creates a new sigmoid operation.
func NewSigmoidOp() *SigmoidOp {
	return &SigmoidOp{}
}

// Kind returns KindSigmoid.
func (op *SigmoidOp) Kind() Kind { return KindSigmoid }

// Arity returns 1.
func (op *SigmoidOp) Arity() int { return 1 }

// Forward applies σ element-wise.
func (op *SigmoidOp) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.Map(inputs[0], Sigmoid), nil
}

// Backward computes the gradient for sigmoid.
//
// For σ(x) = 1 / (1 + exp(-x)):
// dσ/dx = σ(x) * (1 - σ(x))
//
// The local derivative is recomputed from the input at each position:
// grad_input = grad_output ⊙ σ(x)(1 - σ(x)).
func (op *SigmoidOp) Backward(inputs []*tensor.Tensor, _, outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	local := tensor.Map(inputs[0], SigmoidDerivative)

	inputGrad, err := tensor.Mul(outputGrad, local)
	if err != nil {
		return nil, fmt.Errorf("sigmoid backward: %w", err)
	}
	return []*tensor.Tensor{inputGrad}, nil
}

// Sigmoid computes 1 / (1 + exp(-x)).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// SigmoidDerivative computes σ(x)(1 - σ(x)).
func SigmoidDerivative(x float64) float64 {
	s := Sigmoid(x)
	return s * (1 - s)
}
