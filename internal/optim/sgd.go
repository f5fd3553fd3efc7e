package optim

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/autodiff"
	"k8s.io/klog/v2"
)

// DefaultLR is the learning rate used when SGDConfig.LR is zero.
const DefaultLR = 0.1

// SGD implements plain gradient descent:
//
//	param = param - lr * gradient
//
// No state is kept between steps.
//
// Example:
//
//	sgd := optim.NewSGD([]autodiff.NodeID{w, b}, optim.SGDConfig{LR: 0.05})
//	if err := sgd.Step(g); err != nil {
//	    return err
//	}
type SGD struct {
	trainables []autodiff.NodeID
	lr         float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR float64 // Learning rate (default: 0.1)
}

// NewSGD creates an SGD optimizer over the given trainable leaves.
func NewSGD(trainables []autodiff.NodeID, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = DefaultLR
	}
	return &SGD{
		trainables: append([]autodiff.NodeID(nil), trainables...),
		lr:         config.LR,
	}
}

// Step subtracts lr times the self-gradient from every trainable value.
//
// All trainables are validated before any value changes, so a failed Step
// leaves the graph untouched.
func (s *SGD) Step(g *autodiff.Graph) error {
	for _, id := range s.trainables {
		if _, _, err := trainable(g, id); err != nil {
			return fmt.Errorf("sgd: %w", err)
		}
	}
	for _, id := range s.trainables {
		value, grad, _ := trainable(g, id)
		if err := value.AddScaledInPlace(grad, -s.lr); err != nil {
			return fmt.Errorf("sgd: %w", err)
		}
	}
	klog.V(5).InfoS("SGD step", "trainables", len(s.trainables), "lr", s.lr)
	return nil
}

// Trainables returns the leaves this optimizer updates.
func (s *SGD) Trainables() []autodiff.NodeID {
	return append([]autodiff.NodeID(nil), s.trainables...)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

var _ Optimizer = (*SGD)(nil)
