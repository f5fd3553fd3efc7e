package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.shape.NumElements(), "shape %v", tt.shape)
	}
}

func TestShape_IsRowVector(t *testing.T) {
	assert.True(t, Shape{3}.IsRowVector(3))
	assert.True(t, Shape{1, 3}.IsRowVector(3))
	assert.False(t, Shape{2, 3}.IsRowVector(3))
	assert.False(t, Shape{4}.IsRowVector(3))
	assert.False(t, Shape{}.IsRowVector(1))
}

func TestNew_LengthMismatch(t *testing.T) {
	_, err := New(Shape{2, 2}, []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNew_CopiesData(t *testing.T) {
	data := []float64{1, 2}
	x, err := New(Shape{2}, data)
	require.NoError(t, err)

	data[0] = 99
	assert.Equal(t, []float64{1, 2}, x.Data())
}

func TestFromRows(t *testing.T) {
	x, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, 6.0, x.At(1, 2))

	_, err = FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FromRows(nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestReshape(t *testing.T) {
	x := MustFromRows([][]float64{{1, 2}, {3, 4}})

	col, err := x.Reshape(Shape{4, 1})
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 1}, col.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4}, col.Data())

	_, err = x.Reshape(Shape{3})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMatMul(t *testing.T) {
	a := MustFromRows([][]float64{{1, 2}, {3, 4}})
	b := MustFromRows([][]float64{{5, 6}, {7, 8}})

	c, err := MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, c.Shape())
	assert.Equal(t, []float64{19, 22, 43, 50}, c.Data())
}

func TestMatMul_LargeMatchesSequential(t *testing.T) {
	// Large enough to take the parallel path.
	const m, k, n = 200, 3, 2
	a := Zeros(Shape{m, k})
	for i := range a.Data() {
		a.Data()[i] = float64(i%7) - 3
	}
	b := MustFromRows([][]float64{{1, -1}, {0.5, 2}, {-2, 0}})

	c, err := MatMul(a, b)
	require.NoError(t, err)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var want float64
			for kk := 0; kk < k; kk++ {
				want += a.At(i, kk) * b.At(kk, j)
			}
			assert.InDelta(t, want, c.At(i, j), 1e-12)
		}
	}
}

func TestMatMul_ShapeMismatch(t *testing.T) {
	a := Zeros(Shape{2, 3})
	b := Zeros(Shape{2, 3})
	_, err := MatMul(a, b)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = MatMul(Vector(1, 2), b)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTranspose(t *testing.T) {
	a := MustFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	at, err := Transpose(a)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, at.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, at.Data())
}

func TestAddRowVector(t *testing.T) {
	m := MustFromRows([][]float64{{1, 2}, {3, 4}})

	out, err := AddRowVector(m, Vector(10, 20))
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 13, 24}, out.Data())

	out, err = AddRowVector(m, MustFromRows([][]float64{{1, 1}}))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5}, out.Data())

	_, err = AddRowVector(m, Vector(1, 2, 3))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSumRows(t *testing.T) {
	m := MustFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	s, err := SumRows(m)
	require.NoError(t, err)
	assert.Equal(t, Shape{2}, s.Shape())
	assert.Equal(t, []float64{9, 12}, s.Data())
}

func TestElementwise(t *testing.T) {
	a := Vector(1, 2, 3)
	b := Vector(4, 5, 6)

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, sum.Data())

	diff, err := Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -3, -3}, diff.Data())

	prod, err := Mul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 10, 18}, prod.Data())

	_, err = Add(a, Vector(1, 2))
	require.ErrorIs(t, err, ErrShapeMismatch)

	assert.Equal(t, []float64{2, 4, 6}, Scale(a, 2).Data())
	assert.InDelta(t, 2.0, Mean(a), 1e-12)
}

func TestAddScaledInPlace(t *testing.T) {
	x := Vector(1, 1)
	require.NoError(t, x.AddScaledInPlace(Vector(2, 4), -0.5))
	assert.Equal(t, []float64{0, -1}, x.Data())

	require.ErrorIs(t, x.AddInPlace(Vector(1)), ErrShapeMismatch)
}

func TestString(t *testing.T) {
	assert.Equal(t, "3", Scalar(3).String())
	assert.Equal(t, "[1 2]", Vector(1, 2).String())
	assert.Equal(t, "[[1 2] [3 4]]", MustFromRows([][]float64{{1, 2}, {3, 4}}).String())
}
