package app

import "errors"

// Sentinel error kinds for this package.
var (
	ErrSessionNotFound = errors.New("session not found")
)
