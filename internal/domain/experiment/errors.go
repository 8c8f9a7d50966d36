package experiment

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownExperiment = errors.New("unknown experiment")
)
