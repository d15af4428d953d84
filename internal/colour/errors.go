package colour

import "errors"

var (
	// ErrInvalidConfiguration is returned when an estimator is constructed
	// with a non-positive cluster count or iteration cap.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInsufficientSamples is returned when fewer usable samples remain
	// after filtering than there are clusters to fit.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrDegenerateInput is returned when a channel has zero variance and
	// cannot be whitened.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInvalidSample is returned for malformed pixels or records.
	ErrInvalidSample = errors.New("invalid sample")
)
