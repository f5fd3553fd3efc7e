package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// Block types.
const (
	blockTraining    = "training"
	blockData        = "data"
	blockPlaceholder = "placeholder"
	blockParameter   = "parameter"
	blockDense       = "dense"
	blockLinear      = "linear"
	blockSigmoid     = "sigmoid"
	blockSum         = "sum"
	blockMSE         = "mse"
)

// fileSchema lists the top-level blocks. Content keeps them in source order.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: blockTraining},
		{Type: blockData},
		{Type: blockPlaceholder, LabelNames: []string{"name"}},
		{Type: blockParameter, LabelNames: []string{"name"}},
		{Type: blockDense, LabelNames: []string{"name"}},
		{Type: blockLinear, LabelNames: []string{"name"}},
		{Type: blockSigmoid, LabelNames: []string{"name"}},
		{Type: blockSum, LabelNames: []string{"name"}},
		{Type: blockMSE, LabelNames: []string{"name"}},
	},
}

type hclTraining struct {
	LearningRate *float64 `hcl:"learning_rate,optional"`
	Epochs       *int     `hcl:"epochs,optional"`
	BatchSize    *int     `hcl:"batch_size,optional"`
	Seed         *int64   `hcl:"seed,optional"`
	Loss         *string  `hcl:"loss,optional"`
}

type hclData struct {
	Location *string `hcl:"location,optional"`
	Header   *bool   `hcl:"header,optional"`
	Targets  *int    `hcl:"targets,optional"`
}

type hclPlaceholder struct {
	Role string `hcl:"role,optional"`
}

type hclParameter struct {
	Value     hcl.Expression `hcl:"value,optional"`
	Shape     []int          `hcl:"shape,optional"`
	Init      string         `hcl:"init,optional"`
	Std       *float64       `hcl:"std,optional"`
	Trainable *bool          `hcl:"trainable,optional"`
}

type hclDense struct {
	Input string `hcl:"input"`
	In    int    `hcl:"in"`
	Out   int    `hcl:"out"`
}

type hclLinear struct {
	Input   string `hcl:"input"`
	Weights string `hcl:"weights"`
	Bias    string `hcl:"bias"`
}

type hclSigmoid struct {
	Input string `hcl:"input"`
}

type hclSum struct {
	Inputs []string `hcl:"inputs"`
}

type hclMSE struct {
	Target     string `hcl:"target"`
	Prediction string `hcl:"prediction"`
}

// decodeSettings applies the training and data blocks over the defaults.
// Each may appear at most once.
func (m *Model) decodeSettings(blocks hcl.Blocks) error {
	training, diags := findUniqueBlock(blocks, blockTraining)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode: %w", diags)
	}
	if training != nil {
		var t hclTraining
		if diags := gohcl.DecodeBody(training.Body, nil, &t); diags.HasErrors() {
			return fmt.Errorf("training block: %w", diags)
		}
		if t.LearningRate != nil {
			m.Training.LearningRate = *t.LearningRate
		}
		if t.Epochs != nil {
			m.Training.Epochs = *t.Epochs
		}
		if t.BatchSize != nil {
			m.Training.BatchSize = *t.BatchSize
		}
		if t.Seed != nil {
			m.Training.Seed = *t.Seed
		}
		if t.Loss != nil {
			m.Training.Loss = *t.Loss
		}
		if m.Training.LearningRate <= 0 || m.Training.Epochs < 0 || m.Training.BatchSize < 0 {
			return fmt.Errorf("training block: %w: learning_rate must be positive, epochs and batch_size not negative",
				ErrInvalidValue)
		}
	}

	data, diags := findUniqueBlock(blocks, blockData)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode: %w", diags)
	}
	if data != nil {
		var d hclData
		if diags := gohcl.DecodeBody(data.Body, nil, &d); diags.HasErrors() {
			return fmt.Errorf("data block: %w", diags)
		}
		if d.Location != nil {
			m.Data.Location = *d.Location
		}
		if d.Header != nil {
			m.Data.Header = *d.Header
		}
		if d.Targets != nil {
			m.Data.Targets = *d.Targets
		}
		if m.Data.Targets < 1 {
			return fmt.Errorf("data block: %w: targets must be at least 1", ErrInvalidValue)
		}
	}
	return nil
}

// findUniqueBlock returns the block of the given type, or nil. It reports a
// diagnostic if the type appears more than once.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type == name {
			if found != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + name + "\" block",
					Detail:   "Only one \"" + name + "\" block is allowed.",
					Subject:  &block.DefRange,
				})
			}
			found = block
		}
	}

	return found, diags
}
