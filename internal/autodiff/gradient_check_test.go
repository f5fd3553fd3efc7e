package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fdEpsilon   = 1e-5
	fdTolerance = 1e-4
)

func (n *network) feed(x, w, b, y *tensor.Tensor) autodiff.Feed {
	return autodiff.Feed{n.x: x, n.w: w, n.b: b, n.y: y}
}

// numericGradient perturbs every element of param in place and returns the
// central finite difference of the scalar loss.
func numericGradient(t *testing.T, g *autodiff.Graph, order []autodiff.NodeID, loss autodiff.NodeID, param *tensor.Tensor) []float64 {
	t.Helper()
	data := param.Data()
	grads := make([]float64, len(data))
	for i := range data {
		orig := data[i]

		data[i] = orig + fdEpsilon
		require.NoError(t, g.Forward(order))
		plus := g.Value(loss).Item()

		data[i] = orig - fdEpsilon
		require.NoError(t, g.Forward(order))
		minus := g.Value(loss).Item()

		data[i] = orig
		grads[i] = (plus - minus) / (2 * fdEpsilon)
	}
	return grads
}

func assertGradientsClose(t *testing.T, numeric []float64, analytic *tensor.Tensor) {
	t.Helper()
	require.NotNil(t, analytic)
	got := analytic.Data()
	require.Len(t, got, len(numeric))
	for i := range numeric {
		denom := math.Max(math.Abs(numeric[i])+math.Abs(got[i]), 1e-8)
		rel := math.Abs(numeric[i]-got[i]) / denom
		assert.Less(t, rel, fdTolerance, "element %d: numeric %g analytic %g", i, numeric[i], got[i])
	}
}

func TestGradientCheck_LinearSigmoidMSE(t *testing.T) {
	n := newNetwork()
	x := tensor.MustFromRows([][]float64{{1, 2}, {0.5, -1}, {3, 0.2}})
	w := tensor.MustFromRows([][]float64{{0.3}, {-0.2}})
	b := tensor.Vector(0.1)
	y := tensor.MustFromRows([][]float64{{1}, {0}, {1}})

	order, err := n.g.TopologicalSort(n.feed(x, w, b, y))
	require.NoError(t, err)
	require.NoError(t, n.g.ForwardAndBackward(order, n.loss))

	// Capture analytic gradients before the finite differences rerun Forward.
	analytic := map[string]*tensor.Tensor{
		"x": n.g.Gradient(n.x, n.x).Clone(),
		"w": n.g.Gradient(n.w, n.w).Clone(),
		"b": n.g.Gradient(n.b, n.b).Clone(),
	}
	assert.Equal(t, x.Shape(), analytic["x"].Shape())
	assert.Equal(t, w.Shape(), analytic["w"].Shape())
	assert.Equal(t, b.Shape(), analytic["b"].Shape())

	assertGradientsClose(t, numericGradient(t, n.g, order, n.loss, w), analytic["w"])
	assertGradientsClose(t, numericGradient(t, n.g, order, n.loss, b), analytic["b"])
	assertGradientsClose(t, numericGradient(t, n.g, order, n.loss, x), analytic["x"])
}

func TestGradientCheck_SharedLeaf(t *testing.T) {
	// a feeds two consumers; its gradient must be the sum of both paths.
	g := autodiff.New()
	a := g.Placeholder("a")
	b := g.Placeholder("b")
	y := g.Placeholder("y")
	s1 := g.Sigmoid("s1", a)
	s2 := g.Sum("s2", a, b)
	total := g.Sum("total", s1, s2)
	loss := g.MSE("loss", y, total)

	av := tensor.Vector(0.4, -0.7)
	order, err := g.TopologicalSort(autodiff.Feed{
		a: av,
		b: tensor.Vector(0.2, 0.1),
		y: tensor.Vector(1, -1),
	})
	require.NoError(t, err)
	require.NoError(t, g.ForwardAndBackward(order, loss))

	fromS1 := g.Gradient(s1, a)
	fromS2 := g.Gradient(s2, a)
	require.NotNil(t, fromS1)
	require.NotNil(t, fromS2)
	want, err := tensor.Add(fromS1, fromS2)
	require.NoError(t, err)

	got := g.Gradient(a, a).Clone()
	assert.True(t, tensor.AllClose(want, got, 1e-12), "want %v got %v", want, got)

	assertGradientsClose(t, numericGradient(t, g, order, loss, av), got)
}

func TestGradient_SumFanIn(t *testing.T) {
	for _, count := range []int{2, 5} {
		g := autodiff.New()
		feed := autodiff.Feed{}
		leaves := make([]autodiff.NodeID, count)
		for i := range leaves {
			leaves[i] = g.Placeholder("")
			feed[leaves[i]] = tensor.Vector(float64(i), -float64(i))
		}
		y := g.Placeholder("y")
		feed[y] = tensor.Vector(1, 2)
		sum := g.Sum("sum", leaves...)
		loss := g.MSE("loss", y, sum)

		order, err := g.TopologicalSort(feed)
		require.NoError(t, err)
		require.NoError(t, g.ForwardAndBackward(order, loss))

		upstream := g.Gradient(loss, sum)
		require.NotNil(t, upstream)
		for _, l := range leaves {
			assert.Equal(t, upstream.Data(), g.Gradient(sum, l).Data(), "inputs=%d leaf=%d", count, l)
			assert.Equal(t, upstream.Data(), g.Gradient(l, l).Data())
		}
	}
}

func TestGradient_SumOfSameInputTwice(t *testing.T) {
	g := autodiff.New()
	a := g.Placeholder("a")
	twice := g.Sum("twice", a, a)

	order, err := g.TopologicalSort(autodiff.Feed{a: tensor.Vector(3)})
	require.NoError(t, err)
	require.NoError(t, g.ForwardAndBackward(order, twice))

	assert.Equal(t, []float64{6}, g.Value(twice).Data())
	assert.Equal(t, []float64{2}, g.Gradient(twice, a).Data())
	assert.Equal(t, []float64{2}, g.Gradient(a, a).Data())
}

func TestGradient_SigmoidAtZero(t *testing.T) {
	g := autodiff.New()
	z := g.Placeholder("z")
	s := g.Sigmoid("s", z)

	order, err := g.TopologicalSort(autodiff.Feed{z: tensor.MustFromRows([][]float64{{0}})})
	require.NoError(t, err)
	require.NoError(t, g.ForwardAndBackward(order, s))

	assert.InDelta(t, 0.5, g.Value(s).At(0, 0), 1e-12)
	// s is the differentiated node, so this is σ'(0).
	assert.InDelta(t, 0.25, g.Gradient(s, z).At(0, 0), 1e-12)
}

func TestForwardBackward_EndToEnd(t *testing.T) {
	n := newNetwork()
	x := tensor.MustFromRows([][]float64{{1, 2}})
	w := tensor.MustFromRows([][]float64{{1}, {1}})
	b := tensor.Vector(0)
	y := tensor.MustFromRows([][]float64{{1}})

	order, err := n.g.TopologicalSort(n.feed(x, w, b, y))
	require.NoError(t, err)
	require.NoError(t, n.g.ForwardAndBackward(order, n.loss))

	assert.Equal(t, []float64{3}, n.g.Value(n.linear).Data())
	assert.InDelta(t, 0.9525741268, n.g.Value(n.act).At(0, 0), 1e-9)
	before := n.g.Value(n.loss).Item()
	assert.InDelta(t, 0.00225, before, 1e-5)

	const lr = 0.1
	for _, id := range []autodiff.NodeID{n.w, n.b} {
		require.NoError(t, n.g.Value(id).AddScaledInPlace(n.g.Gradient(id, id), -lr))
	}

	require.NoError(t, n.g.Forward(order))
	assert.Less(t, n.g.Value(n.loss).Item(), before)
}

func TestForward_Deterministic(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2}, {3, 4}}),
		tensor.MustFromRows([][]float64{{0.5}, {-0.25}}),
		tensor.Vector(0.1),
		tensor.MustFromRows([][]float64{{0}, {1}}),
	))
	require.NoError(t, err)

	require.NoError(t, n.g.Forward(order))
	first := n.g.Value(n.loss).Item()
	firstAct := n.g.Value(n.act).Clone()

	require.NoError(t, n.g.Forward(order))
	assert.Equal(t, first, n.g.Value(n.loss).Item())
	assert.Equal(t, firstAct.Data(), n.g.Value(n.act).Data())
}

func TestForward_ShapeMismatch(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2}, {3, 4}}),
		tensor.MustFromRows([][]float64{{1}, {1}}),
		tensor.Vector(0),
		tensor.MustFromRows([][]float64{{1}, {0}, {1}}),
	))
	require.NoError(t, err)

	err = n.g.Forward(order)
	require.ErrorIs(t, err, autodiff.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "MSE(name=loss)")
}

func TestForward_LinearDimensionMismatch(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2, 3}}),
		tensor.MustFromRows([][]float64{{1}, {1}}),
		tensor.Vector(0),
		tensor.MustFromRows([][]float64{{1}}),
	))
	require.NoError(t, err)
	require.ErrorIs(t, n.g.Forward(order), autodiff.ErrShapeMismatch)
}

func TestForward_Uninitialized(t *testing.T) {
	n := newNetwork()
	// w and b are never fed.
	order, err := n.g.TopologicalSort(autodiff.Feed{
		n.x: tensor.MustFromRows([][]float64{{1, 2}}),
		n.y: tensor.MustFromRows([][]float64{{1}}),
	})
	require.NoError(t, err)
	require.ErrorIs(t, n.g.Forward(order), autodiff.ErrUninitialized)

	g := autodiff.New()
	x := g.Placeholder("x")
	require.ErrorIs(t, g.Forward([]autodiff.NodeID{x}), autodiff.ErrUninitialized)
}

func TestBackward_BeforeForward(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2}}),
		tensor.MustFromRows([][]float64{{1}, {1}}),
		tensor.Vector(0),
		tensor.MustFromRows([][]float64{{1}}),
	))
	require.NoError(t, err)
	require.ErrorIs(t, n.g.Backward(order, n.loss), autodiff.ErrUninitialized)
}

func TestForward_ClearsStaleGradients(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2}}),
		tensor.MustFromRows([][]float64{{1}, {1}}),
		tensor.Vector(0),
		tensor.MustFromRows([][]float64{{1}}),
	))
	require.NoError(t, err)
	require.NoError(t, n.g.ForwardAndBackward(order, n.loss))
	require.NotNil(t, n.g.Gradient(n.w, n.w))

	require.NoError(t, n.g.Forward(order))
	assert.Nil(t, n.g.Gradient(n.w, n.w))
}

func TestForwardBackward_RepeatedPassesDoNotAccumulate(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2}, {-1, 0.5}}),
		tensor.MustFromRows([][]float64{{0.2}, {0.4}}),
		tensor.Vector(-0.1),
		tensor.MustFromRows([][]float64{{1}, {0}}),
	))
	require.NoError(t, err)

	require.NoError(t, n.g.ForwardAndBackward(order, n.loss))
	first := n.g.Gradient(n.w, n.w).Clone()
	require.NoError(t, n.g.ForwardAndBackward(order, n.loss))
	assert.Equal(t, first.Data(), n.g.Gradient(n.w, n.w).Data())
}

func TestBackward_SideOutputDoesNotContribute(t *testing.T) {
	x := tensor.MustFromRows([][]float64{{1, 2}, {0.5, -1}})
	w := tensor.MustFromRows([][]float64{{0.3}, {-0.2}})
	b := tensor.Vector(0.1)
	y := tensor.MustFromRows([][]float64{{1}, {0}})

	plain := newNetwork()
	order, err := plain.g.TopologicalSort(plain.feed(x, w, b, y))
	require.NoError(t, err)
	require.NoError(t, plain.g.ForwardAndBackward(order, plain.loss))
	want := plain.g.Gradient(plain.w, plain.w).Clone()

	n := newNetwork()
	aux := n.g.Sigmoid("aux", n.act)
	order, err = n.g.TopologicalSort(n.feed(x.Clone(), w.Clone(), b.Clone(), y.Clone()))
	require.NoError(t, err)
	require.Contains(t, order, aux)
	require.NoError(t, n.g.ForwardAndBackward(order, n.loss))

	got := n.g.Gradient(n.w, n.w)
	assert.True(t, tensor.AllClose(want, got, 1e-12), "want %v got %v", want, got)
	assert.Equal(t, []float64{0, 0}, n.g.Gradient(aux, n.act).Data())
}

func TestBackward_SecondLossIsIgnored(t *testing.T) {
	g := autodiff.New()
	x := g.Placeholder("x")
	y1 := g.Placeholder("y1")
	y2 := g.Placeholder("y2")
	s := g.Sigmoid("s", x)
	loss := g.MSE("loss", y1, s)
	monitor := g.MSE("monitor", y2, s)

	xv := tensor.Vector(0.3, -1.2)
	order, err := g.TopologicalSort(autodiff.Feed{
		x:  xv,
		y1: tensor.Vector(1, 0),
		y2: tensor.Vector(-3, 4),
	})
	require.NoError(t, err)
	require.Contains(t, order, monitor)

	require.NoError(t, g.ForwardAndBackward(order, loss))
	analytic := g.Gradient(x, x).Clone()
	assertGradientsClose(t, numericGradient(t, g, order, loss, xv), analytic)

	// Differentiating the other terminal selects its gradient instead.
	require.NoError(t, g.ForwardAndBackward(order, monitor))
	analytic = g.Gradient(x, x).Clone()
	assertGradientsClose(t, numericGradient(t, g, order, monitor, xv), analytic)
}

func TestBackward_LossNotInOrder(t *testing.T) {
	n := newNetwork()
	order, err := n.g.TopologicalSort(n.feed(
		tensor.MustFromRows([][]float64{{1, 2}}),
		tensor.MustFromRows([][]float64{{1}, {1}}),
		tensor.Vector(0),
		tensor.MustFromRows([][]float64{{1}}),
	))
	require.NoError(t, err)
	require.NoError(t, n.g.Forward(order))

	require.ErrorIs(t, n.g.Backward(order, autodiff.NodeID(99)), autodiff.ErrUnknownNode)
	require.ErrorIs(t, n.g.Backward(order[:3], n.loss), autodiff.ErrUnknownNode)
}
