package dataset

import "errors"

// Sentinel kinds for corpus loading errors.
var (
	ErrMalformedCorpus = errors.New("malformed corpus")
)
