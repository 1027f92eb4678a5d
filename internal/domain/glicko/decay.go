package glicko

import (
	"fmt"
	"time"

	"github.com/okian/senet/internal/domain/rating"
)

// TimedRating associates a rating snapshot with the instant it became valid.
// Projecting the snapshot to a later instant grows the deviation without
// mutating the snapshot itself.
type TimedRating struct {
	lastUpdated time.Time
	rating      rating.ScaledRating
}

// NewTimedRating stamps a rating snapshot with its validity instant.
func NewTimedRating(lastUpdated time.Time, r rating.ScaledRating) TimedRating {
	return TimedRating{lastUpdated: lastUpdated, rating: r}
}

// LastUpdated returns the instant the snapshot became valid.
func (t TimedRating) LastUpdated() time.Time { return t.lastUpdated }

// Rating returns the raw snapshot without any decay applied.
func (t TimedRating) Rating() rating.ScaledRating { return t.rating }

// RatingAt projects the snapshot to a later instant: the deviation grows
// with the real-valued number of rating periods elapsed since LastUpdated,
// rating and volatility stay unchanged.
//
// RatingAt fails with ErrTimeInverted if at precedes LastUpdated. An
// out-of-order query is a caller bug and is never silently clamped.
func (t TimedRating) RatingAt(at time.Time, periodDuration time.Duration) (rating.ScaledRating, error) {
	if at.Before(t.lastUpdated) {
		return rating.ScaledRating{}, fmt.Errorf("%w: %v is before %v", ErrTimeInverted, at, t.lastUpdated)
	}

	elapsed := at.Sub(t.lastUpdated).Seconds() / periodDuration.Seconds()

	return rating.NewScaled(
		t.rating.Value(),
		decayedDeviation(t.rating.Deviation(), t.rating.Volatility(), elapsed),
		t.rating.Volatility(),
	)
}
