package report

import "errors"

// Sentinel kinds for rendering errors.
var (
	ErrNilReport     = errors.New("nil report")
	ErrUnknownFormat = errors.New("unknown report format")
)
