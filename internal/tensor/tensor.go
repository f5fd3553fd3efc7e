// Package tensor implements the dense float64 tensors carried by graph nodes.
//
// A Tensor is a row-major buffer plus a Shape. The engine only needs scalars,
// vectors and matrices, so every kernel in this package works on rank <= 2.
// Operations never modify their operands unless the method name says so
// (AddInPlace, AddScaledInPlace).
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a dense row-major float64 tensor.
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a tensor with the given shape, copying data.
// Returns ErrShapeMismatch if len(data) does not match the shape.
func New(shape Shape, data []float64) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return &Tensor{shape: shape.Clone(), data: buf}, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Data returns the underlying row-major buffer.
// Writes through the returned slice modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rank returns the number of dimensions (0 for scalars).
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Item returns the single element of a one-element tensor.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("tensor: Item() on tensor with %d elements", len(t.data)))
	}
	return t.data[0]
}

// At returns the element at (row, col) of a matrix.
func (t *Tensor) At(row, col int) float64 {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: At() on rank-%d tensor", len(t.shape)))
	}
	return t.data[row*t.shape[1]+col]
}

// Set writes the element at (row, col) of a matrix.
func (t *Tensor) Set(row, col int, v float64) {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: Set() on rank-%d tensor", len(t.shape)))
	}
	t.data[row*t.shape[1]+col] = v
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data}
}

// Reshape returns a copy of t with a new shape holding the same elements.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(t.data) {
		return nil, shapeError("reshape", t.shape, shape)
	}
	out := t.Clone()
	out.shape = shape.Clone()
	return out, nil
}

// String formats the tensor like a nested list, e.g. [[1 2] [3 4]].
func (t *Tensor) String() string {
	switch len(t.shape) {
	case 0:
		return fmt.Sprint(t.data[0])
	case 1:
		return fmt.Sprint(t.data)
	}
	rows, cols := t.shape[0], t.NumElements()/t.shape[0]
	var sb strings.Builder
	sb.WriteByte('[')
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprint(t.data[r*cols : (r+1)*cols]))
	}
	sb.WriteByte(']')
	return sb.String()
}
