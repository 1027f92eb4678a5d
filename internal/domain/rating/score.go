package rating

import "fmt"

// Score is the outcome of a match from the acting player's perspective.
// Both values should be in [0,1]. For zero-sum conventions OpponentScore
// equals 1 - PlayerScore; the interface documents that convention but does
// not enforce it.
type Score interface {
	// PlayerScore is the acting player's score, 0 (loss) to 1 (win).
	PlayerScore() float64
	// OpponentScore is the opponent's score, 0 (loss) to 1 (win).
	OpponentScore() float64
}

// MatchResult is the simple win/draw/loss Score implementation.
type MatchResult int

// Match outcomes from the acting player's perspective.
const (
	Loss MatchResult = iota
	Draw
	Win
)

// PlayerScore implements Score.
func (m MatchResult) PlayerScore() float64 {
	switch m {
	case Win:
		return 1.0
	case Draw:
		return 0.5
	default:
		return 0.0
	}
}

// OpponentScore implements Score.
func (m MatchResult) OpponentScore() float64 {
	return m.Invert().PlayerScore()
}

// Invert returns the result from the opponent's perspective.
func (m MatchResult) Invert() MatchResult {
	switch m {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return Draw
	}
}

// String implements fmt.Stringer.
func (m MatchResult) String() string {
	switch m {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Loss:
		return "loss"
	default:
		return fmt.Sprintf("MatchResult(%d)", int(m))
	}
}

// ParseMatchResult maps "win", "draw", or "loss" to a MatchResult.
func ParseMatchResult(s string) (MatchResult, error) {
	switch s {
	case "win":
		return Win, nil
	case "draw":
		return Draw, nil
	case "loss":
		return Loss, nil
	default:
		return 0, fmt.Errorf("%w: unknown outcome %q", ErrInvalidScore, s)
	}
}

// ValidateScore checks that both sides of a Score are inside [0,1].
func ValidateScore(s Score) error {
	if p := s.PlayerScore(); p < 0 || p > 1 {
		return fmt.Errorf("%w: player score %v outside [0,1]", ErrInvalidScore, p)
	}
	if o := s.OpponentScore(); o < 0 || o > 1 {
		return fmt.Errorf("%w: opponent score %v outside [0,1]", ErrInvalidScore, o)
	}
	return nil
}
