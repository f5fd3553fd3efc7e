package tensor

import "fmt"

// Zeros creates a tensor filled with zeros.
// Panics on an invalid shape.
//
// Example:
//
//	w := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Tensor{shape: shape.Clone(), data: make([]float64, shape.NumElements())}
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// ZerosLike creates a zero tensor with the shape of t.
func ZerosLike(t *Tensor) *Tensor {
	return Zeros(t.shape)
}

// OnesLike creates a tensor of ones with the shape of t.
func OnesLike(t *Tensor) *Tensor {
	return Ones(t.shape)
}

// Scalar creates a rank-0 tensor.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: Shape{}, data: []float64{v}}
}

// Vector creates a rank-1 tensor holding values.
func Vector(values ...float64) *Tensor {
	if len(values) == 0 {
		panic("tensor: Vector() needs at least one value")
	}
	data := make([]float64, len(values))
	copy(data, values)
	return &Tensor{shape: Shape{len(values)}, data: data}
}

// FromRows creates a matrix from a slice of equally sized rows.
//
// Example:
//
//	x, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}}) // Shape{2, 2}
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrShapeMismatch)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Tensor{shape: Shape{len(rows), cols}, data: data}, nil
}

// MustFromRows is like FromRows but panics on error.
// Intended for literals in tests and examples.
func MustFromRows(rows [][]float64) *Tensor {
	t, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return t
}
