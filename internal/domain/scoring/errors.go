package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors.
var (
	ErrScoreOutOfRange = errors.New("score out of range")
)

// ProbeError wraps a scoring-function failure with the probe that was
// awaiting it, so callers can tell which test was aborted.
type ProbeError struct {
	TestType string
	Err      error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("scoring probe failed during %s: %v", e.TestType, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// NewProbeError attaches probe identity to a scoring failure.
func NewProbeError(testType string, err error) *ProbeError {
	return &ProbeError{TestType: testType, Err: err}
}
