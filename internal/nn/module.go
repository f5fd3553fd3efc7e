// Package nn declares common network building blocks on an autodiff.Graph.
//
// A module adds its parameter leaves and compute nodes to the graph when it is
// constructed. Parameter leaves receive their initial value immediately; the
// caller feeds data and target placeholders and retains the parameters so the
// builder reaches them.
//
//	rng := rand.New(rand.NewSource(1))
//	hidden, _ := nn.NewLinear(g, "hidden", x, 2, 4, rng)
//	act := nn.NewSigmoid(g, "hidden_act", hidden.Output())
//	out, _ := nn.NewLinear(g, "out", act.Output(), 4, 1, rng)
//
//	trainables := nn.TrainableIDs(hidden, out)
//	feed := autodiff.Feed{x: batchX, y: batchY}.Retain(trainables...)
//	sgd := optim.NewSGD(trainables, optim.SGDConfig{})
package nn

import (
	"github.com/born-ml/miniflow/internal/autodiff"
)

// Module is the base interface for all neural network components.
type Module interface {
	// Output returns the node holding the module's result.
	Output() autodiff.NodeID

	// Parameters returns the module's trainable leaves.
	Parameters() []*Parameter
}

// TrainableIDs collects the parameter leaves of modules in declaration order.
func TrainableIDs(modules ...Module) []autodiff.NodeID {
	var ids []autodiff.NodeID
	for _, m := range modules {
		for _, p := range m.Parameters() {
			ids = append(ids, p.ID())
		}
	}
	return ids
}
