package train_test

import (
	"context"
	"strings"
	"testing"

	"github.com/born-ml/miniflow/internal/config"
	"github.com/born-ml/miniflow/internal/dataset"
	"github.com/born-ml/miniflow/internal/tensor"
	"github.com/born-ml/miniflow/internal/train"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const neuron = `
training {
  learning_rate = 1
  epochs        = 300
  seed          = 2
}

placeholder "x" { role = "features" }
placeholder "y" { role = "target" }

parameter "w" {
  shape = [2, 1]
  init  = "xavier"
}
parameter "b" { value = [0] }

linear "l1" {
  input   = "x"
  weights = "w"
  bias    = "b"
}
sigmoid "s1" { input = "l1" }
mse "loss" {
  target     = "y"
  prediction = "s1"
}
`

// andCSV is linearly separable.
const andCSV = `0,0,0
0,1,0
1,0,0
1,1,1
`

func load(t *testing.T) (*config.Model, *dataset.Dataset) {
	t.Helper()
	m, err := config.Parse([]byte(neuron), "neuron.hcl")
	require.NoError(t, err)
	ds, err := dataset.Parse(strings.NewReader(andCSV), dataset.Options{})
	require.NoError(t, err)
	return m, ds
}

func TestRun_DecreasesLoss(t *testing.T) {
	m, ds := load(t)

	before, _, err := train.Evaluate(m, ds)
	require.NoError(t, err)

	history, err := train.Run(context.Background(), m, ds, train.Options{})
	require.NoError(t, err)
	require.Len(t, history.Losses, 300)
	assert.Less(t, history.Final(), history.Losses[0])

	after, predicted, err := train.Evaluate(m, ds)
	require.NoError(t, err)
	assert.Less(t, after, before)
	assert.Less(t, after, 0.1)

	require.NotNil(t, predicted)
	assert.Equal(t, tensor.Shape{4, 1}, predicted.Shape())
	assert.Greater(t, predicted.At(3, 0), predicted.At(0, 0))
}

func TestRun_MiniBatches(t *testing.T) {
	m, ds := load(t)

	history, err := train.Run(context.Background(), m, ds, train.Options{Epochs: 50, BatchSize: 2, Seed: 11})
	require.NoError(t, err)
	require.Len(t, history.Losses, 50)
	assert.Less(t, history.Final(), history.Losses[0])
}

func TestRun_Reproducible(t *testing.T) {
	m1, ds1 := load(t)
	m2, ds2 := load(t)
	opts := train.Options{Epochs: 10, BatchSize: 1}

	h1, err := train.Run(context.Background(), m1, ds1, opts)
	require.NoError(t, err)
	h2, err := train.Run(context.Background(), m2, ds2, opts)
	require.NoError(t, err)
	assert.Equal(t, h1.Losses, h2.Losses)
}

func TestRun_Cancelled(t *testing.T) {
	m, ds := load(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	history, err := train.Run(ctx, m, ds, train.Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, history.Losses)
}

func TestRun_DatasetMismatch(t *testing.T) {
	m, _ := load(t)
	ds, err := dataset.Parse(strings.NewReader("0,0,0\n1,1,1\n"), dataset.Options{Targets: 2})
	require.NoError(t, err)

	_, err = train.Run(context.Background(), m, ds, train.Options{})
	require.ErrorIs(t, err, train.ErrDatasetMismatch)
}

func TestHistory_Final(t *testing.T) {
	var h train.History
	assert.InDelta(t, 0, h.Final(), 0)
	h.Losses = []float64{3, 2, 1}
	assert.InDelta(t, 1, h.Final(), 0)
}

// monitored declares a second mse over the raw linear output next to the
// selected loss.
const monitored = `
training {
  learning_rate = 1
  epochs        = 1
  loss          = "loss"
}

placeholder "x" { role = "features" }
placeholder "y" { role = "target" }

parameter "w" { value = [[0.3], [-0.2]] }
parameter "b" { value = [0.1] }

linear "l1" {
  input   = "x"
  weights = "w"
  bias    = "b"
}
sigmoid "s1" { input = "l1" }
mse "loss" {
  target     = "y"
  prediction = "s1"
}
mse "monitor" {
  target     = "y"
  prediction = "l1"
}
`

func TestRun_MinimisesSelectedLoss(t *testing.T) {
	m, err := config.Parse([]byte(monitored), "monitored.hcl")
	require.NoError(t, err)
	ds, err := dataset.Parse(strings.NewReader(andCSV), dataset.Options{})
	require.NoError(t, err)

	w, ok := m.Graph.Lookup("w")
	require.True(t, ok)
	weights := m.Graph.Value(w).Data()
	before := append([]float64(nil), weights...)

	// Central differences of the selected loss over the full dataset.
	const eps = 1e-6
	numeric := make([]float64, len(weights))
	for i := range weights {
		weights[i] = before[i] + eps
		plus, _, err := train.Evaluate(m, ds)
		require.NoError(t, err)
		weights[i] = before[i] - eps
		minus, _, err := train.Evaluate(m, ds)
		require.NoError(t, err)
		weights[i] = before[i]
		numeric[i] = (plus - minus) / (2 * eps)
	}

	// One full-batch step at learning rate 1 moves w by exactly -dloss/dw.
	_, err = train.Run(context.Background(), m, ds, train.Options{})
	require.NoError(t, err)

	after := m.Graph.Value(w).Data()
	for i := range after {
		assert.InDelta(t, before[i]-numeric[i], after[i], 1e-6, "w[%d]", i)
	}
}
