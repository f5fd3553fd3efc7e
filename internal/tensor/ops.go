package tensor

import (
	"fmt"
	"math"

	"github.com/born-ml/miniflow/internal/parallel"
)

// Add returns the element-wise sum a + b. Shapes must be equal.
func Add(a, b *Tensor) (*Tensor, error) {
	return zipWith("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns the element-wise difference a - b. Shapes must be equal.
func Sub(a, b *Tensor) (*Tensor, error) {
	return zipWith("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns the element-wise (Hadamard) product a ⊙ b. Shapes must be equal.
func Mul(a, b *Tensor) (*Tensor, error) {
	return zipWith("mul", a, b, func(x, y float64) float64 { return x * y })
}

func zipWith(op string, a, b *Tensor, f func(x, y float64) float64) (*Tensor, error) {
	if !a.shape.Equal(b.shape) {
		return nil, shapeError(op, a.shape, b.shape)
	}
	out := Zeros(a.shape)
	for i := range out.data {
		out.data[i] = f(a.data[i], b.data[i])
	}
	return out, nil
}

// Scale returns s * t.
func Scale(t *Tensor, s float64) *Tensor {
	return Map(t, func(x float64) float64 { return s * x })
}

// Map applies f to every element and returns the result.
func Map(t *Tensor, f func(float64) float64) *Tensor {
	out := Zeros(t.shape)
	for i, v := range t.data {
		out.data[i] = f(v)
	}
	return out
}

// AddInPlace accumulates src into t. Shapes must be equal.
func (t *Tensor) AddInPlace(src *Tensor) error {
	return t.AddScaledInPlace(src, 1)
}

// AddScaledInPlace performs t += alpha * src. Shapes must be equal.
func (t *Tensor) AddScaledInPlace(src *Tensor, alpha float64) error {
	if !t.shape.Equal(src.shape) {
		return shapeError("axpy", t.shape, src.shape)
	}
	for i, v := range src.data {
		t.data[i] += alpha * v
	}
	return nil
}

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
// Rows of the result are computed in parallel when M is large enough.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return nil, fmt.Errorf("matmul: %w: only 2D tensors supported, got %dD and %dD",
			ErrShapeMismatch, len(a.shape), len(b.shape))
	}

	m, k := a.shape[0], a.shape[1]
	kAlt, n := b.shape[0], b.shape[1]
	if k != kAlt {
		return nil, shapeError("matmul", a.shape, b.shape)
	}

	out := Zeros(Shape{m, n})
	parallel.Rows(m, parallel.MinRows, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			row := out.data[i*n : (i+1)*n]
			for kIdx := 0; kIdx < k; kIdx++ {
				aik := a.data[i*k+kIdx]
				if aik == 0 {
					continue
				}
				bRow := b.data[kIdx*n : (kIdx+1)*n]
				for j, bkj := range bRow {
					row[j] += aik * bkj
				}
			}
		}
	})

	return out, nil
}

// Transpose returns the transpose of a matrix.
func Transpose(t *Tensor) (*Tensor, error) {
	if len(t.shape) != 2 {
		return nil, fmt.Errorf("transpose: %w: only 2D tensors supported, got %dD", ErrShapeMismatch, len(t.shape))
	}
	rows, cols := t.shape[0], t.shape[1]
	out := Zeros(Shape{cols, rows})
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.data[c*rows+r] = t.data[r*cols+c]
		}
	}
	return out, nil
}

// AddRowVector adds row to every row of the matrix m.
// row must have Shape{n} or Shape{1, n} where n is the column count of m.
func AddRowVector(m, row *Tensor) (*Tensor, error) {
	if len(m.shape) != 2 || !row.shape.IsRowVector(m.shape[1]) {
		return nil, shapeError("add_row", m.shape, row.shape)
	}
	cols := m.shape[1]
	out := m.Clone()
	for i := range out.data {
		out.data[i] += row.data[i%cols]
	}
	return out, nil
}

// SumRows sums a matrix over its rows (axis 0), returning Shape{n}.
func SumRows(m *Tensor) (*Tensor, error) {
	if len(m.shape) != 2 {
		return nil, fmt.Errorf("sum_rows: %w: only 2D tensors supported, got %dD", ErrShapeMismatch, len(m.shape))
	}
	cols := m.shape[1]
	out := Zeros(Shape{cols})
	for i, v := range m.data {
		out.data[i%cols] += v
	}
	return out, nil
}

// Sum returns the sum of all elements.
func Sum(t *Tensor) float64 {
	var s float64
	for _, v := range t.data {
		s += v
	}
	return s
}

// Mean returns the arithmetic mean of all elements.
func Mean(t *Tensor) float64 {
	return Sum(t) / float64(len(t.data))
}

// AllClose reports whether a and b have equal shapes and every pair of
// elements differs by at most tol.
func AllClose(a, b *Tensor, tol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}
