package config

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/miniflow/internal/autodiff"
	"github.com/born-ml/miniflow/internal/nn"
	"github.com/born-ml/miniflow/internal/tensor"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"k8s.io/klog/v2"
)

// Placeholder roles.
const (
	roleFeatures = "features"
	roleTarget   = "target"
)

// Parameter initializers.
const (
	initXavier = "xavier"
	initNormal = "normal"
	initZeros  = "zeros"
	initOnes   = "ones"
)

// builder declares nodes block by block.
type builder struct {
	m   *Model
	g   *autodiff.Graph
	rng *rand.Rand

	features, target []autodiff.NodeID
	losses           []autodiff.NodeID
}

func (m *Model) build(blocks hcl.Blocks) error {
	b := &builder{
		m:   m,
		g:   autodiff.New(),
		rng: rand.New(rand.NewSource(m.Training.Seed)), //nolint:gosec // parameter initialization
	}
	for _, block := range blocks {
		if err := b.declare(block); err != nil {
			return fmt.Errorf("%s %q (%s): %w", block.Type, label(block), block.DefRange, err)
		}
	}
	if err := b.resolveRoles(); err != nil {
		return err
	}
	m.Graph = b.g

	klog.V(4).InfoS("Built model graph", "nodes", b.g.Len(), "loss", m.Training.Loss)
	return nil
}

func (b *builder) declare(block *hcl.Block) error {
	switch block.Type {
	case blockTraining, blockData:
		return nil
	}

	name := label(block)
	if _, exists := b.g.Lookup(name); exists {
		return ErrDuplicateName
	}

	switch block.Type {
	case blockPlaceholder:
		var p hclPlaceholder
		if diags := gohcl.DecodeBody(block.Body, nil, &p); diags.HasErrors() {
			return diags
		}
		return b.placeholder(name, p)

	case blockParameter:
		var p hclParameter
		if diags := gohcl.DecodeBody(block.Body, nil, &p); diags.HasErrors() {
			return diags
		}
		return b.parameter(name, p)

	case blockDense:
		var d hclDense
		if diags := gohcl.DecodeBody(block.Body, nil, &d); diags.HasErrors() {
			return diags
		}
		return b.dense(name, d)

	case blockLinear:
		var l hclLinear
		if diags := gohcl.DecodeBody(block.Body, nil, &l); diags.HasErrors() {
			return diags
		}
		inputs, err := b.resolve(l.Input, l.Weights, l.Bias)
		if err != nil {
			return err
		}
		_, err = b.g.AddNode(name, opFor(block.Type), inputs...)
		return err

	case blockSigmoid:
		var s hclSigmoid
		if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
			return diags
		}
		inputs, err := b.resolve(s.Input)
		if err != nil {
			return err
		}
		_, err = b.g.AddNode(name, opFor(block.Type), inputs...)
		return err

	case blockSum:
		var s hclSum
		if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
			return diags
		}
		if len(s.Inputs) == 0 {
			return fmt.Errorf("%w: sum needs at least one input", ErrInvalidValue)
		}
		inputs, err := b.resolve(s.Inputs...)
		if err != nil {
			return err
		}
		_, err = b.g.AddNode(name, opFor(block.Type), inputs...)
		return err

	case blockMSE:
		var l hclMSE
		if diags := gohcl.DecodeBody(block.Body, nil, &l); diags.HasErrors() {
			return diags
		}
		inputs, err := b.resolve(l.Target, l.Prediction)
		if err != nil {
			return err
		}
		id, err := b.g.AddNode(name, opFor(block.Type), inputs...)
		if err != nil {
			return err
		}
		b.losses = append(b.losses, id)
		return nil
	}
	return fmt.Errorf("unsupported block type %q", block.Type)
}

func (b *builder) placeholder(name string, p hclPlaceholder) error {
	id := b.g.Placeholder(name)
	switch p.Role {
	case "":
	case roleFeatures:
		b.features = append(b.features, id)
	case roleTarget:
		b.target = append(b.target, id)
	default:
		return fmt.Errorf("%w: role %q, want %q or %q", ErrInvalidValue, p.Role, roleFeatures, roleTarget)
	}
	return nil
}

func (b *builder) parameter(name string, p hclParameter) error {
	value, err := tensorFromExpr(p.Value)
	if err != nil {
		return err
	}
	if value == nil {
		if value, err = b.initialize(p); err != nil {
			return err
		}
	} else if p.Shape != nil || p.Init != "" {
		return fmt.Errorf("%w: value excludes shape and init", ErrInvalidValue)
	}

	param, err := nn.NewParameter(b.g, name, value)
	if err != nil {
		return err
	}
	b.m.Parameters = append(b.m.Parameters, param.ID())
	if p.Trainable == nil || *p.Trainable {
		b.m.Trainables = append(b.m.Trainables, param.ID())
	}
	return nil
}

func (b *builder) initialize(p hclParameter) (*tensor.Tensor, error) {
	shape := tensor.Shape(p.Shape)
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: parameter needs a value or a shape", ErrInvalidValue)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	switch p.Init {
	case "", initXavier:
		fanIn, fanOut := shape.NumElements(), shape.NumElements()
		if len(shape) == 2 {
			fanIn, fanOut = shape[0], shape[1]
		}
		return nn.Xavier(b.rng, fanIn, fanOut, shape), nil
	case initNormal:
		std := 1.0
		if p.Std != nil {
			std = *p.Std
		}
		return nn.Normal(b.rng, shape, std), nil
	case initZeros:
		return nn.Zeros(shape), nil
	case initOnes:
		return nn.Ones(shape), nil
	default:
		return nil, fmt.Errorf("%w: init %q", ErrInvalidValue, p.Init)
	}
}

func (b *builder) dense(name string, d hclDense) error {
	inputs, err := b.resolve(d.Input)
	if err != nil {
		return err
	}
	for _, n := range []string{name + ".weight", name + ".bias"} {
		if _, exists := b.g.Lookup(n); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, n)
		}
	}
	layer, err := nn.NewLinear(b.g, name, inputs[0], d.In, d.Out, b.rng)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	for _, p := range layer.Parameters() {
		b.m.Parameters = append(b.m.Parameters, p.ID())
		b.m.Trainables = append(b.m.Trainables, p.ID())
	}
	return nil
}

// resolve maps names to earlier declared nodes.
func (b *builder) resolve(names ...string) ([]autodiff.NodeID, error) {
	ids := make([]autodiff.NodeID, len(names))
	for i, name := range names {
		id, ok := b.g.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndeclared, name)
		}
		ids[i] = id
	}
	return ids, nil
}

// resolveRoles selects the features, target and loss nodes.
func (b *builder) resolveRoles() error {
	if len(b.features) != 1 || len(b.target) != 1 {
		return fmt.Errorf("%w: need exactly one %q and one %q placeholder, have %d and %d",
			ErrIncomplete, roleFeatures, roleTarget, len(b.features), len(b.target))
	}
	b.m.Features, b.m.Target = b.features[0], b.target[0]

	if b.m.Training.Loss == "" {
		if len(b.losses) == 0 {
			return fmt.Errorf("%w: no mse block", ErrIncomplete)
		}
		b.m.Loss = b.losses[len(b.losses)-1]
		n, _ := b.g.Node(b.m.Loss)
		b.m.Training.Loss = n.Name()
		return nil
	}
	id, ok := b.g.Lookup(b.m.Training.Loss)
	if !ok {
		return fmt.Errorf("loss: %w: %q", ErrUndeclared, b.m.Training.Loss)
	}
	b.m.Loss = id
	return nil
}

func label(block *hcl.Block) string {
	if len(block.Labels) == 0 {
		return ""
	}
	return block.Labels[0]
}
