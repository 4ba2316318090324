package bias

import "errors"

// Sentinel kinds for analytics errors.
var (
	ErrNoStatements     = errors.New("no statements to analyze")
	ErrInvalidConfig    = errors.New("invalid analytics config")
	ErrInsufficientData = errors.New("insufficient data for probe")
)
