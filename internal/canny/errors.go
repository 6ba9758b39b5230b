package canny

import "errors"

// Configuration and buffer contract violations. Returned errors wrap one of
// these, so callers should test with errors.Is.
var (
	ErrInvalidKernelParameters  = errors.New("canny: invalid kernel parameters")
	ErrInvalidThresholdOrdering = errors.New("canny: invalid threshold ordering")
	ErrDimensionMismatch        = errors.New("canny: dimension mismatch")
	ErrUnknownStage             = errors.New("canny: unknown stage")
	ErrInvalidDirection         = errors.New("canny: invalid gradient direction")
)
