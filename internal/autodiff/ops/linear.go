package ops

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/tensor"
)

// LinearOp represents an affine transform: output = X @ W + b.
//
// Inputs (in order):
//   - X: data [m, k]
//   - W: weights [k, n]
//   - b: bias [n] or [1, n], added to every row
//
// Backward pass, with G = dL/d(output) of shape [m, n]:
//   - dL/dX = G @ Wᵀ
//   - dL/dW = Xᵀ @ G
//   - dL/db = column-wise sum of G, shaped like b
type LinearOp struct{}

// NewLinearOp creates a new LinearOp.
func NewLinearOp() *LinearOp {
	return &LinearOp{}
}

// Kind returns KindLinear.
func (op *LinearOp) Kind() Kind { return KindLinear }

// Arity returns 3.
func (op *LinearOp) Arity() int { return 3 }

// Forward computes X @ W + b.
func (op *LinearOp) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	x, w, b := inputs[0], inputs[1], inputs[2]

	xw, err := tensor.MatMul(x, w)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	out, err := tensor.AddRowVector(xw, b)
	if err != nil {
		return nil, fmt.Errorf("linear: bias: %w", err)
	}
	return out, nil
}

// Backward computes gradients for data, weights and bias.
func (op *LinearOp) Backward(inputs []*tensor.Tensor, _, outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	x, w, b := inputs[0], inputs[1], inputs[2]

	// grad_x = outputGrad @ wᵀ
	wT, err := tensor.Transpose(w)
	if err != nil {
		return nil, fmt.Errorf("linear backward: %w", err)
	}
	gradX, err := tensor.MatMul(outputGrad, wT)
	if err != nil {
		return nil, fmt.Errorf("linear backward: data: %w", err)
	}

	// grad_w = xᵀ @ outputGrad
	xT, err := tensor.Transpose(x)
	if err != nil {
		return nil, fmt.Errorf("linear backward: %w", err)
	}
	gradW, err := tensor.MatMul(xT, outputGrad)
	if err != nil {
		return nil, fmt.Errorf("linear backward: weights: %w", err)
	}

	// grad_b = Σ_rows outputGrad
	colSums, err := tensor.SumRows(outputGrad)
	if err != nil {
		return nil, fmt.Errorf("linear backward: bias: %w", err)
	}
	gradB, err := colSums.Reshape(b.Shape())
	if err != nil {
		return nil, fmt.Errorf("linear backward: bias: %w", err)
	}

	return []*tensor.Tensor{gradX, gradW, gradB}, nil
}
