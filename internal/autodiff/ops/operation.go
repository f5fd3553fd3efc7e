// Package ops defines the closed set of differentiable operators a graph node
// can carry.
//
// Each operator implements the Operation interface, which provides:
//   - Forward: computes the node value from its input values
//   - Backward: computes the gradient for every input given the upstream
//     gradient (the sum of what the node's consumers assigned to it)
//
// Supported operators:
//   - LeafOp: placeholder or trainable parameter; value injected from outside
//   - SumOp: element-wise sum of N inputs (d(a+b+...)/da = 1)
//   - LinearOp: X·W + b (dX = G·Wᵀ, dW = Xᵀ·G, db = Σ_rows G)
//   - SigmoidOp: σ(x) = 1/(1+exp(-x)) (dσ/dx = σ(x)(1-σ(x)))
//   - MSEOp: mean((y-ŷ)²) (dy = 2/m·diff, dŷ = -2/m·diff)
//
// Operators are stateless: everything Backward needs is passed in, so one
// operator value may be shared by many nodes.
package ops

import (
	"errors"
	"fmt"

	"github.com/born-ml/miniflow/internal/tensor"
)

// Errors reported by operators and the graph engine.
var (
	ErrUninitialized  = errors.New("uninitialized state")
	ErrNotImplemented = errors.New("not implemented")
)

// Kind discriminates the operator variants.
type Kind int

// Operator kinds.
const (
	KindInvalid Kind = iota
	KindLeaf
	KindSum
	KindLinear
	KindSigmoid
	KindMSE
)

// String returns the operator name used in node diagnostics.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Placeholder"
	case KindSum:
		return "Sum"
	case KindLinear:
		return "Linear"
	case KindSigmoid:
		return "Sigmoid"
	case KindMSE:
		return "MSE"
	default:
		return "Invalid"
	}
}

// Variadic is the Arity of operators accepting any positive number of inputs.
const Variadic = -1

// Operation is a differentiable operator in the computation graph.
type Operation interface {
	// Kind identifies the variant.
	Kind() Kind

	// Arity is the exact number of inputs, or Variadic.
	Arity() int

	// Forward computes the node value from its input values.
	// A nil result with a nil error means the operator produces no value of
	// its own and the node keeps the value it already holds (leaves).
	Forward(inputs []*tensor.Tensor) (*tensor.Tensor, error)

	// Backward computes one gradient per input, given the input values, the
	// node's output value, and the upstream gradient dL/d(output).
	//
	// Leaves have no inputs; they return a single gradient with respect to
	// themselves.
	Backward(inputs []*tensor.Tensor, output, outputGrad *tensor.Tensor) ([]*tensor.Tensor, error)
}

// CheckArity validates the number of inputs handed to op.
func CheckArity(op Operation, n int) error {
	switch arity := op.Arity(); {
	case arity == Variadic && n == 0:
		return fmt.Errorf("%s: needs at least one input", op.Kind())
	case arity != Variadic && arity != n:
		return fmt.Errorf("%s: needs exactly %d inputs, got %d", op.Kind(), arity, n)
	}
	return nil
}
