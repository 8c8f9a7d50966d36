package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyAddr     = errors.New("addr must not be empty")
	ErrBadRateLimit  = errors.New("rate limit requests and window must be positive")
	ErrBadMaxResults = errors.New("max_results must be positive")
)

// Wrap annotates an external error with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
