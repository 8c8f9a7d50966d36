package catalog

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidDeck = errors.New("invalid deck definition")
)
