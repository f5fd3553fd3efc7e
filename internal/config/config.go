// Package config decodes HCL model definitions into an executable graph.
//
// A definition declares nodes as labeled blocks. Blocks may only reference
// nodes declared before them, so node IDs follow the order of the file:
//
//	training {
//	  learning_rate = 0.5
//	  epochs        = 2000
//	  batch_size    = 4
//	  seed          = 7
//	}
//
//	data {
//	  location = "xor.csv"
//	  header   = true
//	}
//
//	placeholder "x" { role = "features" }
//	placeholder "y" { role = "target" }
//
//	dense "hidden" {
//	  input = "x"
//	  in    = 2
//	  out   = 3
//	}
//	sigmoid "hidden_act" { input = "hidden" }
//
//	parameter "w2" {
//	  shape = [3, 1]
//	  init  = "xavier"
//	}
//	parameter "b2" { value = [0] }
//	linear "out" {
//	  input   = "hidden_act"
//	  weights = "w2"
//	  bias    = "b2"
//	}
//	sigmoid "prediction" { input = "out" }
//	mse "loss" {
//	  target     = "y"
//	  prediction = "prediction"
//	}
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/optim"
	"github.com/born-ml/miniflow/internal/tensor"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"k8s.io/klog/v2"
)

// Training defaults.
const (
	DefaultEpochs = 1000
	DefaultSeed   = 1
)

// Training holds the optimisation settings of a definition.
type Training struct {
	LearningRate float64
	Epochs       int
	// BatchSize of zero trains on the full dataset every step.
	BatchSize int
	Seed      int64
	// Loss names the node to minimise. Empty selects the last mse block.
	Loss string
}

// Data describes where training samples come from.
type Data struct {
	// Location is a local path or gs://bucket/object URL.
	Location string
	Header   bool
	Targets  int
}

// Model is a decoded definition: the graph plus the roles of its nodes.
type Model struct {
	Graph *autodiff.Graph

	// Features and Target are the placeholders fed from the dataset.
	Features autodiff.NodeID
	Target   autodiff.NodeID
	// Loss is the node whose value training minimises.
	Loss autodiff.NodeID

	// Parameters lists every parameter leaf in declaration order; Trainables
	// is the subset the optimizer updates.
	Parameters []autodiff.NodeID
	Trainables []autodiff.NodeID

	Training Training
	Data     Data
}

// Feed returns a feed with the batch assigned to the features and target
// placeholders and every parameter retained.
func (m *Model) Feed(x, y *tensor.Tensor) autodiff.Feed {
	feed := autodiff.Feed{m.Features: x, m.Target: y}
	return feed.Retain(m.Parameters...)
}

// Load parses and decodes the definition at path.
func Load(ctx context.Context, path string) (*Model, error) {
	log := klog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	m, err := decode(file.Body)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	// Relative local datasets are found next to the model file.
	if loc := m.Data.Location; loc != "" && !strings.HasPrefix(loc, "gs://") && !filepath.IsAbs(loc) {
		m.Data.Location = filepath.Join(filepath.Dir(path), loc)
	}
	log.Info("loaded model", "path", path, "nodes", m.Graph.Len(),
		"parameters", len(m.Parameters), "trainables", len(m.Trainables))
	return m, nil
}

// Parse decodes a definition held in memory. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Model, error) {
	content, diags := body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode: %w", diags)
	}

	m := &Model{
		Training: Training{
			LearningRate: optim.DefaultLR,
			Epochs:       DefaultEpochs,
			Seed:         DefaultSeed,
		},
		Data: Data{Targets: 1},
	}
	if err := m.decodeSettings(content.Blocks); err != nil {
		return nil, err
	}
	if err := m.build(content.Blocks); err != nil {
		return nil, err
	}
	return m, nil
}
