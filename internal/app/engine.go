// Package engine manages player ratings across rating periods.
//
// The engine abstracts the rating period away from callers: matches can be
// recorded at any time and participant ratings update instantly. Whole
// periods that elapsed are folded into the stored ratings before any
// operation that reads or writes across a period boundary; the fractional
// remainder is handled by the fractional-period rating computation.
//
// All state is guarded by one mutex. Rating queries take it too, because a
// query can close elapsed periods as a side effect.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/okian/senet/internal/adapters/repository"
	"github.com/okian/senet/internal/domain/glicko"
	"github.com/okian/senet/internal/domain/rating"
	"github.com/okian/senet/pkg/logger"
	"github.com/okian/senet/pkg/metrics"
)

// player is the engine's per-player state: the rating at the start of the
// open rating period, and the results collected during it.
type player struct {
	rating  rating.ScaledRating
	results []glicko.Game
}

// Engine manages player ratings and computes them from match results.
type Engine struct {
	mu sync.Mutex

	lastPeriodStart time.Time
	players         *repository.Arena[player]
	settings        rating.Settings

	log logger.Logger
}

// New creates an Engine whose first rating period starts immediately.
func New(settings rating.Settings, opts ...Option) *Engine {
	return NewAt(time.Now(), settings, opts...)
}

// NewAt creates an Engine whose first rating period starts at the given
// instant. Meant mostly for reproducibility and tests.
func NewAt(start time.Time, settings rating.Settings, opts ...Option) *Engine {
	e := &Engine{
		lastPeriodStart: start,
		players:         repository.NewArena[player](),
		settings:        settings,
		log:             logger.Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the engine's settings.
func (e *Engine) Settings() rating.Settings {
	return e.settings
}

// LastPeriodStart returns the start of the currently open rating period.
func (e *Engine) LastPeriodStart() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastPeriodStart
}

// PlayerCount returns the number of registered players.
func (e *Engine) PlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.players.Len()
}

// Handles returns a handle for every registered player, in registration order.
func (e *Engine) Handles() []repository.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.players.Handles()
}

// RegisterPlayer registers a new player with the given public-scale rating
// at the start of the current rating period.
//
// Returns the player's handle, valid for the engine's whole lifetime, and
// the number of rating periods the operation closed.
func (e *Engine) RegisterPlayer(r rating.Rating) (repository.Handle, int, error) {
	return e.RegisterPlayerAt(r, time.Now())
}

// RegisterPlayerAt registers a new player at the start of what is the
// current rating period at the given time. Meant mostly for reproducibility
// and tests; a time before the current period start closes zero periods.
func (e *Engine) RegisterPlayerAt(r rating.Rating, at time.Time) (repository.Handle, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, closed, err := e.closePeriodsLocked(at)
	if err != nil {
		return repository.Handle{}, 0, err
	}

	handle := e.players.Push(player{rating: r.Scale(e.settings)})
	metrics.RecordPlayerRegistered()

	return handle, closed, nil
}

// RecordResult records a match outcome between two players in the current
// rating period. The resulting ratings are computed lazily, when a rating is
// inspected.
//
// Both players receive the result, each against a snapshot of the other's
// rating at the start of the open period. Returns the number of rating
// periods the operation closed.
func (e *Engine) RecordResult(a, b repository.Handle, score rating.Score) (int, error) {
	return e.RecordResultAt(a, b, score, time.Now())
}

// RecordResultAt records a match outcome at the given time. Elapsed periods
// are closed first so the result lands in the correct period. Meant mostly
// for reproducibility and tests.
func (e *Engine) RecordResultAt(a, b repository.Handle, score rating.Score, at time.Time) (int, error) {
	if err := rating.ValidateScore(score); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, closed, err := e.closePeriodsLocked(at)
	if err != nil {
		return 0, err
	}

	playerA, err := e.players.Get(a)
	if err != nil {
		return 0, err
	}
	playerB, err := e.players.Get(b)
	if err != nil {
		return 0, err
	}

	// Opponent snapshots are taken now, at registration time. A later rating
	// change of the opponent does not retroactively affect this result.
	snapshotA := playerA.rating
	snapshotB := playerB.rating

	playerA.results = append(playerA.results, glicko.NewGame(snapshotB, score.PlayerScore()))
	playerB.results = append(playerB.results, glicko.NewGame(snapshotA, score.OpponentScore()))

	metrics.RecordResultRecorded()

	return closed, nil
}

// PlayerRating computes a player's rating as of now, on the public scale.
//
// Elapsed whole periods are folded into stored state first; the fractional
// remainder is applied on the fly without mutating stored state. Returns the
// rating and the number of rating periods the operation closed.
func (e *Engine) PlayerRating(handle repository.Handle) (rating.Rating, int, error) {
	return e.PlayerRatingAt(handle, time.Now())
}

// PlayerRatingAt computes a player's rating as of the given time. Meant
// mostly for reproducibility and tests.
func (e *Engine) PlayerRatingAt(handle repository.Handle, at time.Time) (rating.Rating, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fraction, closed, err := e.closePeriodsLocked(at)
	if err != nil {
		return rating.Rating{}, 0, err
	}

	p, err := e.players.Get(handle)
	if err != nil {
		return rating.Rating{}, 0, err
	}

	start := time.Now()
	scaled, err := glicko.Rate(p.rating, p.results, fraction, e.settings)
	if err != nil {
		return rating.Rating{}, 0, err
	}
	metrics.RecordRatingUpdate(float64(time.Since(start).Nanoseconds()) / 1e6)

	return scaled.Unscale(e.settings), closed, nil
}

// LastPeriodRating returns a player's stored rating at the start of the open
// rating period, on the public scale, without computing anything.
func (e *Engine) LastPeriodRating(handle repository.Handle) (rating.Rating, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.players.Get(handle)
	if err != nil {
		return rating.Rating{}, err
	}
	return p.rating.Unscale(e.settings), nil
}

// ClosePeriods closes all rating periods that have elapsed by now. Callers
// never need this; every operation closes periods itself. It is exposed for
// callers that want to force the fold (and audit the boundary crossing).
//
// Returns the fraction of the now-open period that has elapsed and the
// number of periods closed.
func (e *Engine) ClosePeriods() (float64, int, error) {
	return e.ClosePeriodsAt(time.Now())
}

// ClosePeriodsAt closes all rating periods that have elapsed by the given
// time. Meant mostly for reproducibility and tests.
func (e *Engine) ClosePeriodsAt(at time.Time) (float64, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closePeriodsLocked(at)
}

// ElapsedPeriods returns the real-valued number of rating periods elapsed
// since the open period started. Zero if the clock reads before the period
// start.
func (e *Engine) ElapsedPeriods() float64 {
	return e.ElapsedPeriodsAt(time.Now())
}

// ElapsedPeriodsAt is ElapsedPeriods at a given instant.
func (e *Engine) ElapsedPeriodsAt(at time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedPeriodsLocked(at)
}

// GetStats returns engine statistics for the stats endpoint.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return map[string]interface{}{
		"players":           e.players.Len(),
		"last_period_start": e.lastPeriodStart,
		"elapsed_periods":   e.elapsedPeriodsLocked(time.Now()),
		"period_duration":   e.settings.PeriodDuration().String(),
	}
}

func (e *Engine) elapsedPeriodsLocked(at time.Time) float64 {
	d := at.Sub(e.lastPeriodStart)
	if d < 0 {
		return 0
	}
	return d.Seconds() / e.settings.PeriodDuration().Seconds()
}

// closePeriodsLocked folds every elapsed whole period into the stored
// ratings, one full period at a time and in chronological order, then
// advances the period start. Closing zero periods is a no-op, which makes
// repeated calls at the same instant idempotent.
func (e *Engine) closePeriodsLocked(at time.Time) (float64, int, error) {
	elapsed := e.elapsedPeriodsLocked(at)

	// Floor truncation: an exactly-integer elapsed count closes that many
	// periods.
	whole := int(math.Floor(elapsed))

	for i := 0; i < whole; i++ {
		// Fold into scratch first, commit only after every player folded
		// cleanly. A solver failure must leave no stored rating or
		// pending-result list touched.
		updated := make([]rating.ScaledRating, 0, e.players.Len())
		var rateErr error
		e.players.Each(func(_ repository.Handle, p *player) {
			if rateErr != nil {
				return
			}
			next, err := glicko.Rate(p.rating, p.results, 1.0, e.settings)
			if err != nil {
				rateErr = err
				return
			}
			updated = append(updated, next)
		})
		if rateErr != nil {
			return 0, 0, rateErr
		}

		idx := 0
		e.players.Each(func(_ repository.Handle, p *player) {
			// The results are folded into the rating; they belong to the
			// closed period only.
			p.rating = updated[idx]
			p.results = nil
			idx++
		})
	}

	if whole > 0 {
		e.lastPeriodStart = e.lastPeriodStart.Add(time.Duration(whole) * e.settings.PeriodDuration())
		metrics.RecordPeriodsClosed(whole)
		e.log.Debug(context.Background(), "closed rating periods",
			logger.Int("periods", whole),
			logger.Time("period_start", e.lastPeriodStart),
			logger.Int("players", e.players.Len()),
		)
	}

	return elapsed - float64(whole), whole, nil
}
