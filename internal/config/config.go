// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"fmt"
	"time"

	"github.com/okian/senet/internal/domain/rating"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StartRating, StartDeviation, and StartVolatility seed unrated players.
	StartRating     float64 `koanf:"start_rating"`
	StartDeviation  float64 `koanf:"start_deviation"`
	StartVolatility float64 `koanf:"start_volatility"`

	// VolatilityChange is the Glicko-2 system constant τ. Reasonable values
	// are between 0.3 and 1.2.
	VolatilityChange float64 `koanf:"volatility_change"`

	// ConvergenceTolerance is the cutoff for the volatility solver.
	ConvergenceTolerance float64 `koanf:"convergence_tolerance"`

	// RatingPeriod is the wall-clock length of one rating period, in
	// time.ParseDuration syntax.
	RatingPeriod string `koanf:"rating_period"`

	// PlayerCapacity pre-sizes the engine's player store. Zero means no
	// pre-allocation.
	PlayerCapacity int `koanf:"player_capacity"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		StartRating:          rating.DefaultStartValue,
		StartDeviation:       rating.DefaultStartDeviation,
		StartVolatility:      rating.DefaultStartVolatility,
		VolatilityChange:     rating.DefaultVolatilityChange,
		ConvergenceTolerance: rating.DefaultConvergenceTolerance,
		RatingPeriod:         "24h",
		PlayerCapacity:       0,
	}
}

// Settings validates the rating parameters and builds the engine settings.
func (c *Config) Settings() (rating.Settings, error) {
	period, err := time.ParseDuration(c.RatingPeriod)
	if err != nil {
		return rating.Settings{}, fmt.Errorf("%w: rating_period: %v", ErrInvalidConfig, err)
	}

	start, err := rating.New(c.StartRating, c.StartDeviation, c.StartVolatility)
	if err != nil {
		return rating.Settings{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	settings, err := rating.NewSettings(start, c.VolatilityChange, c.ConvergenceTolerance, period)
	if err != nil {
		return rating.Settings{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return settings, nil
}
