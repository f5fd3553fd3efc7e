package config

import "errors"

// Sentinel errors for model definitions.
var (
	// ErrUndeclared is returned when a block references a node that is not
	// declared earlier in the file.
	ErrUndeclared = errors.New("undeclared node")

	// ErrDuplicateName is returned when two nodes share a name.
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrInvalidValue is returned for tensor literals, shapes and settings
	// that cannot be used.
	ErrInvalidValue = errors.New("invalid value")

	// ErrIncomplete is returned when the definition lacks a features or target
	// placeholder or a loss node.
	ErrIncomplete = errors.New("incomplete model")
)
