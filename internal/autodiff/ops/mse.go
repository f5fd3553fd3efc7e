package ops

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/tensor"
)

// MSEOp represents the mean-squared-error loss between a target y and a
// prediction ŷ.
//
// Forward:
//
//	diff = y - ŷ  (both flattened to m elements)
//	loss = mean(diff²)
//
// Backward:
//
//	dL/dy = (2/m) * diff
//	dL/dŷ = (-2/m) * diff
//
// Both gradients are scaled by the scalar upstream gradient (1 when the loss is
// the terminal node) and reshaped back to the corresponding input shape.
type MSEOp struct{}

// NewMSEOp creates a new MSEOp.
func NewMSEOp() *MSEOp {
	return &MSEOp{}
}

// Kind returns KindMSE.
func (op *MSEOp) Kind() Kind { return KindMSE }

// Arity returns 2: target, prediction.
func (op *MSEOp) Arity() int { return 2 }

// Forward returns the scalar mean squared error.
func (op *MSEOp) Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error) {
	diff, err := op.diff(inputs[0], inputs[1])
	if err != nil {
		return nil, err
	}
	sq, _ := tensor.Mul(diff, diff)
	return tensor.Scalar(tensor.Mean(sq)), nil
}

// Backward computes gradients for target and prediction.
func (op *MSEOp) Backward(inputs []*tensor.Tensor, _, outputGrad *tensor.Tensor) ([]*tensor.Tensor, error) {
	y, yHat := inputs[0], inputs[1]

	diff, err := op.diff(y, yHat)
	if err != nil {
		return nil, err
	}
	if outputGrad.NumElements() != 1 {
		return nil, fmt.Errorf("mse backward: %w: upstream gradient %v is not scalar",
			tensor.ErrShapeMismatch, outputGrad.Shape())
	}

	m := float64(diff.NumElements())
	upstream := outputGrad.Item()

	gradY, err := tensor.Scale(diff, upstream*2/m).Reshape(y.Shape())
	if err != nil {
		return nil, fmt.Errorf("mse backward: %w", err)
	}
	gradYHat, err := tensor.Scale(diff, -upstream*2/m).Reshape(yHat.Shape())
	if err != nil {
		return nil, fmt.Errorf("mse backward: %w", err)
	}
	return []*tensor.Tensor{gradY, gradYHat}, nil
}

// diff flattens y and ŷ to column vectors and returns y - ŷ.
func (op *MSEOp) diff(y, yHat *tensor.Tensor) (*tensor.Tensor, error) {
	if y.NumElements() != yHat.NumElements() {
		return nil, fmt.Errorf("mse: %w: target %v vs prediction %v",
			tensor.ErrShapeMismatch, y.Shape(), yHat.Shape())
	}
	col := tensor.Shape{y.NumElements(), 1}
	yCol, err := y.Reshape(col)
	if err != nil {
		return nil, fmt.Errorf("mse: %w", err)
	}
	yHatCol, err := yHat.Reshape(col)
	if err != nil {
		return nil, fmt.Errorf("mse: %w", err)
	}
	return tensor.Sub(yCol, yHatCol)
}
