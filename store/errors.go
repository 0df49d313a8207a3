package store

import "github.com/pkg/errors"

// Sentinel errors surfaced by the core API (spec §7). Callers compare
// against these with errors.Is; internal wrapping with stackerr happens
// at the call sites that can fail for reasons other than these four.
var (
	ErrNotFound        = errors.New("key not found")
	ErrKeyExists       = errors.New("key already exists")
	ErrOutOfCapacity   = errors.New("out of capacity")
	ErrPayloadTooLarge = errors.New("payload too large for arena")
)
