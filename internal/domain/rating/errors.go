package rating

import "errors"

// Sentinel kinds for rating construction errors.
var (
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidScore    = errors.New("invalid score")
)
