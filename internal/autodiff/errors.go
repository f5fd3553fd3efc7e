package autodiff

import (
	"errors"

	"github.com/born-ml/miniflow/internal/autodiff/ops"
	"github.com/born-ml/miniflow/internal/tensor"
)

// Errors returned by graph construction, ordering and traversal. All of them
// abort the current pass; node values and gradients may be partially updated.
var (
	ErrCycleDetected  = errors.New("cycle detected: graph has no topological order")
	ErrShapeMismatch  = tensor.ErrShapeMismatch
	ErrUninitialized  = ops.ErrUninitialized
	ErrNotImplemented = ops.ErrNotImplemented
	ErrNotLeaf        = errors.New("not a leaf node")
	ErrUnknownNode    = errors.New("unknown node")
)
