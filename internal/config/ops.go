package config

import "github.com/born-ml/miniflow/internal/autodiff/ops"

// opFor returns the operator a compute block declares.
func opFor(blockType string) ops.Operation {
	switch blockType {
	case blockLinear:
		return ops.NewLinearOp()
	case blockSigmoid:
		return ops.NewSigmoidOp()
	case blockSum:
		return ops.NewSumOp()
	case blockMSE:
		return ops.NewMSEOp()
	}
	return nil
}
