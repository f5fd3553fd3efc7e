package dataset

import "errors"

// Sentinel errors for dataset loading.
var (
	// ErrEmptyDataset is returned when a source holds no records.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInvalidRecord is returned for records with the wrong width or a
	// field that is not a number.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidLocation is returned for malformed gs:// URLs.
	ErrInvalidLocation = errors.New("invalid dataset location")
)
