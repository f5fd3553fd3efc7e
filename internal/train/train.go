// Package train runs gradient-descent training of a decoded model over a
// dataset.
package train

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/autodiff/ops"
	"github.com/born-ml/miniflow/internal/config"
	"github.com/born-ml/miniflow/internal/dataset"
	"github.com/born-ml/miniflow/internal/optim"
	"github.com/born-ml/miniflow/internal/tensor"
	"k8s.io/klog/v2"
)

// ErrDatasetMismatch is returned when the dataset's width does not fit the
// model.
var ErrDatasetMismatch = errors.New("dataset does not match model")

// Options override the model's training settings. Zero values keep the
// model's setting.
type Options struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
}

// History records the mean batch loss of every epoch.
type History struct {
	Losses []float64
}

// Final returns the loss of the last epoch, or 0 if no epoch ran.
func (h *History) Final() float64 {
	if len(h.Losses) == 0 {
		return 0
	}
	return h.Losses[len(h.Losses)-1]
}

// Run trains m on ds and returns the loss history. Training stops early with
// ctx's error if ctx is cancelled between steps.
func Run(ctx context.Context, m *config.Model, ds *dataset.Dataset, opts Options) (*History, error) {
	log := klog.FromContext(ctx)
	settings := merge(m.Training, opts)

	rng := rand.New(rand.NewSource(settings.Seed)) //nolint:gosec // batch sampling
	order, err := prepare(m, ds)
	if err != nil {
		return nil, err
	}
	sgd := optim.NewSGD(m.Trainables, optim.SGDConfig{LR: settings.LearningRate})

	log.Info("starting training", "epochs", settings.Epochs, "batchSize", settings.BatchSize,
		"learningRate", settings.LearningRate, "samples", ds.Len(), "trainables", len(m.Trainables))

	startedAt := time.Now()
	history := &History{Losses: make([]float64, 0, settings.Epochs)}
	for epoch := 0; epoch < settings.Epochs; epoch++ {
		var total float64
		batches := ds.Batches(rng, settings.BatchSize)
		for _, batch := range batches {
			if err := ctx.Err(); err != nil {
				return history, err
			}
			loss, err := step(m, ds, order, sgd, batch)
			if err != nil {
				return history, fmt.Errorf("epoch %d: %w", epoch, err)
			}
			total += loss
		}
		history.Losses = append(history.Losses, total/float64(len(batches)))

		log.V(2).Info("epoch finished", "epoch", epoch, "loss", history.Final())
	}

	log.Info("finished training", "epochs", settings.Epochs, "loss", history.Final(), "duration", time.Since(startedAt))
	return history, nil
}

// Evaluate runs a forward pass over the whole dataset and returns the loss.
// When the loss node is an MSE, predicted holds its prediction input for
// every sample.
func Evaluate(m *config.Model, ds *dataset.Dataset) (loss float64, predicted *tensor.Tensor, err error) {
	order, err := prepare(m, ds)
	if err != nil {
		return 0, nil, err
	}
	if err := feedBatch(m, ds.Features(), ds.Targets()); err != nil {
		return 0, nil, err
	}
	if err := m.Graph.Forward(order); err != nil {
		return 0, nil, err
	}
	if loss, err = lossValue(m); err != nil {
		return 0, nil, err
	}

	n, err := m.Graph.Node(m.Loss)
	if err != nil {
		return 0, nil, err
	}
	if n.Kind() == ops.KindMSE {
		predicted = m.Graph.Value(n.Inputs()[1])
	}
	return loss, predicted, nil
}

// lossValue reads the scalar loss of the last forward pass.
func lossValue(m *config.Model) (float64, error) {
	v := m.Graph.Value(m.Loss)
	if v == nil || v.NumElements() != 1 {
		return 0, fmt.Errorf("loss node %d: %w: not a scalar", m.Loss, autodiff.ErrShapeMismatch)
	}
	return v.Item(), nil
}

// prepare checks ds against the model and returns the evaluation order of
// the nodes reachable from the data and parameters.
func prepare(m *config.Model, ds *dataset.Dataset) ([]autodiff.NodeID, error) {
	if n := ds.NumTargets(); n != m.Data.Targets {
		return nil, fmt.Errorf("%w: %d target columns, model expects %d", ErrDatasetMismatch, n, m.Data.Targets)
	}
	order, err := m.Graph.TopologicalSort(m.Feed(ds.Features(), ds.Targets()))
	if err != nil {
		return nil, err
	}
	return order, nil
}

func step(m *config.Model, ds *dataset.Dataset, order []autodiff.NodeID, opt optim.Optimizer, batch []int) (float64, error) {
	x, y, err := ds.Batch(batch)
	if err != nil {
		return 0, err
	}
	if err := feedBatch(m, x, y); err != nil {
		return 0, err
	}
	if err := m.Graph.ForwardAndBackward(order, m.Loss); err != nil {
		return 0, err
	}
	loss, err := lossValue(m)
	if err != nil {
		return 0, err
	}
	if err := opt.Step(m.Graph); err != nil {
		return 0, err
	}
	return loss, nil
}

func feedBatch(m *config.Model, x, y *tensor.Tensor) error {
	if err := m.Graph.SetValue(m.Features, x); err != nil {
		return err
	}
	return m.Graph.SetValue(m.Target, y)
}

func merge(t config.Training, opts Options) config.Training {
	if opts.Epochs > 0 {
		t.Epochs = opts.Epochs
	}
	if opts.BatchSize > 0 {
		t.BatchSize = opts.BatchSize
	}
	if opts.LearningRate > 0 {
		t.LearningRate = opts.LearningRate
	}
	if opts.Seed != 0 {
		t.Seed = opts.Seed
	}
	return t
}
