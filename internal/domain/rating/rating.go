// Package rating contains the rating value types shared across the service.
//
// Ratings exist on two scales. The public scale is the display-friendly one
// (centered near 1500, like classic Glicko). The internal scale is the
// unit-normalized one the computation runs on (centered near 0). The two are
// related by a fixed affine transform parameterized by the configured start
// rating and ScalingRatio.
package rating

import (
	"encoding/json"
	"fmt"
)

// ScalingRatio converts between the public Glicko scale and the internal
// Glicko-2 scale. See steps 2 and 8 of Glickman's paper.
const ScalingRatio = 173.7178

// Rating is a player rating on the public scale.
// Deviation and volatility are always strictly positive.
type Rating struct {
	value      float64
	deviation  float64
	volatility float64
}

// New builds a public-scale Rating. Deviation and volatility must be > 0.
func New(value, deviation, volatility float64) (Rating, error) {
	if deviation <= 0 {
		return Rating{}, fmt.Errorf("%w: deviation %v <= 0", ErrInvalidRating, deviation)
	}
	if volatility <= 0 {
		return Rating{}, fmt.Errorf("%w: volatility %v <= 0", ErrInvalidRating, volatility)
	}
	return Rating{value: value, deviation: deviation, volatility: volatility}, nil
}

// MustNew is New for known-good literals. It panics on invalid input.
func MustNew(value, deviation, volatility float64) Rating {
	r, err := New(value, deviation, volatility)
	if err != nil {
		panic(err)
	}
	return r
}

// Value returns the skill estimate.
func (r Rating) Value() float64 { return r.value }

// Deviation returns the rating deviation (uncertainty).
func (r Rating) Deviation() float64 { return r.deviation }

// Volatility returns the expected volatility of the skill over time.
func (r Rating) Volatility() float64 { return r.volatility }

// Scale converts the rating to the internal computation scale using the start
// rating from s as the center.
func (r Rating) Scale(s Settings) ScaledRating {
	return ScaledRating{
		value:      (r.value - s.startRating.value) / ScalingRatio,
		deviation:  r.deviation / ScalingRatio,
		volatility: r.volatility,
	}
}

// ScaledRating is a player rating on the internal scale.
// Deviation and volatility are always strictly positive.
type ScaledRating struct {
	value      float64
	deviation  float64
	volatility float64
}

// NewScaled builds an internal-scale rating. Deviation and volatility must be > 0.
func NewScaled(value, deviation, volatility float64) (ScaledRating, error) {
	if deviation <= 0 {
		return ScaledRating{}, fmt.Errorf("%w: deviation %v <= 0", ErrInvalidRating, deviation)
	}
	if volatility <= 0 {
		return ScaledRating{}, fmt.Errorf("%w: volatility %v <= 0", ErrInvalidRating, volatility)
	}
	return ScaledRating{value: value, deviation: deviation, volatility: volatility}, nil
}

// Value returns the skill estimate on the internal scale.
func (r ScaledRating) Value() float64 { return r.value }

// Deviation returns the rating deviation on the internal scale.
func (r ScaledRating) Deviation() float64 { return r.deviation }

// Volatility returns the volatility. It is scale-independent.
func (r ScaledRating) Volatility() float64 { return r.volatility }

// Unscale converts the rating back to the public scale using the start rating
// from s as the center. Scale followed by Unscale reproduces the original
// values to floating-point precision.
func (r ScaledRating) Unscale(s Settings) Rating {
	return Rating{
		value:      r.value*ScalingRatio + s.startRating.value,
		deviation:  r.deviation * ScalingRatio,
		volatility: r.volatility,
	}
}

// ratingJSON is the wire shape shared by both scales.
type ratingJSON struct {
	Rating     float64 `json:"rating"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// MarshalJSON implements json.Marshaler.
func (r Rating) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(ratingJSON{Rating: r.value, Deviation: r.deviation, Volatility: r.volatility})
	if err != nil {
		return nil, fmt.Errorf("marshal rating: %w", err)
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler. Invariants are re-validated.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var raw ratingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal rating: %w", err)
	}
	v, err := New(raw.Rating, raw.Deviation, raw.Volatility)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r ScaledRating) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(ratingJSON{Rating: r.value, Deviation: r.deviation, Volatility: r.volatility})
	if err != nil {
		return nil, fmt.Errorf("marshal rating: %w", err)
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler. Invariants are re-validated.
func (r *ScaledRating) UnmarshalJSON(data []byte) error {
	var raw ratingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal rating: %w", err)
	}
	v, err := NewScaled(raw.Rating, raw.Deviation, raw.Volatility)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
