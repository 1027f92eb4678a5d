package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrUnknownHandle means a handle was not issued by this arena.
	ErrUnknownHandle = errors.New("unknown player handle")
)
