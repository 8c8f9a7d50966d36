package ratelimit

import "errors"

// Sentinel error kinds for this package.
var (
	ErrBadReply = errors.New("unexpected rate limit script reply")
)
