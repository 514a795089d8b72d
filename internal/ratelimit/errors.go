package ratelimit

import "errors"

var (
	ErrInvalidRule   = errors.New("ratelimit: invalid rule")
	ErrKeyRequired   = errors.New("ratelimit: key required")
	ErrStoreRequired = errors.New("ratelimit: store required")
)
