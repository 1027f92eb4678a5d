package glicko

import "errors"

// Sentinel kinds for rating computation errors.
var (
	// ErrNoConvergence means the volatility solver exceeded its iteration
	// budget. The convergence tolerance is too small relative to τ; the same
	// inputs will always fail again.
	ErrNoConvergence = errors.New("volatility solver did not converge")

	// ErrTimeInverted means a rating was queried at an instant before it was
	// last updated. Rating timelines are monotonic; this is a caller bug.
	ErrTimeInverted = errors.New("query time precedes last update")
)
