// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/miniflow/internal/tensor"
)

// Tensor is a dense row-major float64 array.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// ErrShapeMismatch is returned when operands have incompatible shapes.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// Creation functions

// New creates a tensor of shape holding a copy of data.
func New(shape Shape, data []float64) (*Tensor, error) {
	return tensor.New(shape, data)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Scalar creates a rank-0 tensor.
func Scalar(v float64) *Tensor {
	return tensor.Scalar(v)
}

// Vector creates a rank-1 tensor.
func Vector(values ...float64) *Tensor {
	return tensor.Vector(values...)
}

// FromRows creates a matrix from equally sized rows.
//
// Example:
//
//	x, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
func FromRows(rows [][]float64) (*Tensor, error) {
	return tensor.FromRows(rows)
}

// MustFromRows is like FromRows but panics on error.
func MustFromRows(rows [][]float64) *Tensor {
	return tensor.MustFromRows(rows)
}

// Operations

// Add returns a + b for tensors of equal shape.
func Add(a, b *Tensor) (*Tensor, error) {
	return tensor.Add(a, b)
}

// Sub returns a - b for tensors of equal shape.
func Sub(a, b *Tensor) (*Tensor, error) {
	return tensor.Sub(a, b)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
func MatMul(a, b *Tensor) (*Tensor, error) {
	return tensor.MatMul(a, b)
}

// Transpose returns the transpose of a matrix.
func Transpose(t *Tensor) (*Tensor, error) {
	return tensor.Transpose(t)
}

// AllClose reports whether a and b have equal shapes and elements within tol.
func AllClose(a, b *Tensor, tol float64) bool {
	return tensor.AllClose(a, b, tol)
}
