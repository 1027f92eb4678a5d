package rating

import (
	"encoding/json"
	"fmt"
	"time"
)

// Defaults from Glickman's paper. The volatility change constant sits in the
// middle of the reasonable range (0.3 to 1.2) and usually needs tuning per
// application.
const (
	DefaultStartValue      = 1500.0
	DefaultStartDeviation  = 350.0
	DefaultStartVolatility = 0.06

	DefaultVolatilityChange     = 0.75
	DefaultConvergenceTolerance = 0.000_001

	DefaultPeriodDuration = 24 * time.Hour
)

// Settings holds the tuning parameters for the rating system. It is an
// immutable value: the With* builders return modified copies.
type Settings struct {
	startRating          Rating
	volatilityChange     float64
	convergenceTolerance float64
	periodDuration       time.Duration
}

// NewSettings validates and builds a Settings value.
// volatilityChange (τ) and convergenceTolerance must be > 0, and
// periodDuration must be a positive span.
func NewSettings(start Rating, volatilityChange, convergenceTolerance float64, periodDuration time.Duration) (Settings, error) {
	if volatilityChange <= 0 {
		return Settings{}, fmt.Errorf("%w: volatility change %v <= 0", ErrInvalidSettings, volatilityChange)
	}
	if convergenceTolerance <= 0 {
		return Settings{}, fmt.Errorf("%w: convergence tolerance %v <= 0", ErrInvalidSettings, convergenceTolerance)
	}
	if periodDuration <= 0 {
		return Settings{}, fmt.Errorf("%w: rating period duration %v <= 0", ErrInvalidSettings, periodDuration)
	}
	return Settings{
		startRating:          start,
		volatilityChange:     volatilityChange,
		convergenceTolerance: convergenceTolerance,
		periodDuration:       periodDuration,
	}, nil
}

// DefaultSettings returns the paper defaults with a one day rating period.
func DefaultSettings() Settings {
	return Settings{
		startRating:          Rating{value: DefaultStartValue, deviation: DefaultStartDeviation, volatility: DefaultStartVolatility},
		volatilityChange:     DefaultVolatilityChange,
		convergenceTolerance: DefaultConvergenceTolerance,
		periodDuration:       DefaultPeriodDuration,
	}
}

// StartRating is the rating assigned to unrated players, and the center of
// the public/internal scale transform.
func (s Settings) StartRating() Rating { return s.startRating }

// VolatilityChange is τ, the system constant bounding volatility change.
func (s Settings) VolatilityChange() float64 { return s.volatilityChange }

// ConvergenceTolerance is the cutoff for the volatility solver.
func (s Settings) ConvergenceTolerance() float64 { return s.convergenceTolerance }

// PeriodDuration is the wall-clock length of one rating period.
func (s Settings) PeriodDuration() time.Duration { return s.periodDuration }

// WithStartRating returns a copy with a different start rating.
func (s Settings) WithStartRating(start Rating) Settings {
	s.startRating = start
	return s
}

// WithVolatilityChange returns a copy with a different τ.
func (s Settings) WithVolatilityChange(volatilityChange float64) Settings {
	s.volatilityChange = volatilityChange
	return s
}

// WithConvergenceTolerance returns a copy with a different solver cutoff.
func (s Settings) WithConvergenceTolerance(convergenceTolerance float64) Settings {
	s.convergenceTolerance = convergenceTolerance
	return s
}

// WithPeriodDuration returns a copy with a different rating period length.
func (s Settings) WithPeriodDuration(periodDuration time.Duration) Settings {
	s.periodDuration = periodDuration
	return s
}

type settingsJSON struct {
	StartRating          Rating  `json:"start_rating"`
	VolatilityChange     float64 `json:"volatility_change"`
	ConvergenceTolerance float64 `json:"convergence_tolerance"`
	PeriodDurationMS     int64   `json:"period_duration_ms"`
}

// MarshalJSON implements json.Marshaler.
func (s Settings) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(settingsJSON{
		StartRating:          s.startRating,
		VolatilityChange:     s.volatilityChange,
		ConvergenceTolerance: s.convergenceTolerance,
		PeriodDurationMS:     s.periodDuration.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler. Invariants are re-validated.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw settingsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}
	v, err := NewSettings(raw.StartRating, raw.VolatilityChange, raw.ConvergenceTolerance,
		time.Duration(raw.PeriodDurationMS)*time.Millisecond)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
