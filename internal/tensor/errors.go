package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when an operation receives operands whose
// shapes are structurally incompatible.
var ErrShapeMismatch = errors.New("shape mismatch")

func shapeError(op string, a, b Shape) error {
	return fmt.Errorf("%s: %w: %v vs %v", op, ErrShapeMismatch, a, b)
}
