package analysis

import "errors"

// Shared failure taxonomy for the statistical engines. Engines wrap these
// sentinels with the failing operation's name; callers test with errors.Is.
var (
	// ErrEmptyDataset is returned by statistical operations given zero elements.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInvalidArgument is returned for semantically invalid inputs, such as
	// a zero marginal in a posterior computation or a probability outside [0,1].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch is returned when paired sequences or matrix rows
	// disagree on length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
