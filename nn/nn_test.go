// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/born-ml/miniflow/autodiff"
	"github.com/born-ml/miniflow/nn"
	"github.com/born-ml/miniflow/optim"
	"github.com/born-ml/miniflow/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	g := autodiff.New()
	x := g.Placeholder("x")
	layer, err := nn.NewLinear(g, "fc", x, 2, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	modules := []nn.Module{layer, nn.NewSigmoid(g, "act", layer.Output())}
	assert.Len(t, nn.TrainableIDs(modules...), 2)
}

func TestTrainingStep(t *testing.T) {
	g := autodiff.New()
	x := g.Placeholder("x")
	y := g.Placeholder("y")
	layer, err := nn.NewLinear(g, "fc", x, 2, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	act := nn.NewSigmoid(g, "act", layer.Output())
	loss := g.MSE("loss", y, act.Output())

	trainables := nn.TrainableIDs(layer)
	feed := autodiff.Feed{
		x: tensor.MustFromRows([][]float64{{1, 2}}),
		y: tensor.MustFromRows([][]float64{{1}}),
	}
	order, err := g.TopologicalSort(feed.Retain(trainables...))
	require.NoError(t, err)
	require.NoError(t, g.ForwardAndBackward(order, loss))
	before := g.Value(loss).Item()

	require.NoError(t, optim.NewSGD(trainables, optim.SGDConfig{}).Step(g))
	require.NoError(t, g.Forward(order))
	assert.Less(t, g.Value(loss).Item(), before)
}
