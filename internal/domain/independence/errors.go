package independence

import "errors"

// Sentinel kinds for validator errors.
var (
	ErrNoStatements     = errors.New("no statements to validate")
	ErrNilProbe         = errors.New("scoring probe is nil")
	ErrInvalidThreshold = errors.New("invalid probe threshold")
)
