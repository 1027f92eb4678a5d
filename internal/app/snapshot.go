package engine

import (
	"time"

	"github.com/okian/senet/internal/adapters/repository"
	"github.com/okian/senet/internal/domain/glicko"
	"github.com/okian/senet/internal/domain/rating"
)

// GameSnapshot is the serializable form of a pending match result.
type GameSnapshot struct {
	Opponent rating.ScaledRating `json:"opponent"`
	Score    float64             `json:"score"`
}

// PlayerSnapshot is the serializable form of a managed player.
type PlayerSnapshot struct {
	Rating  rating.ScaledRating `json:"rating"`
	Results []GameSnapshot      `json:"results,omitempty"`
}

// Snapshot is a serializable copy of the full engine state. Players appear
// in registration order, so the n-th entry corresponds to the n-th issued
// handle.
type Snapshot struct {
	LastPeriodStart time.Time        `json:"last_period_start"`
	Settings        rating.Settings  `json:"settings"`
	Players         []PlayerSnapshot `json:"players"`
}

// Snapshot copies the current engine state into a serializable value. The
// engine itself never depends on serialization; this is a convenience for
// callers that persist or inspect state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	players := make([]PlayerSnapshot, 0, e.players.Len())
	e.players.Each(func(_ repository.Handle, p *player) {
		results := make([]GameSnapshot, 0, len(p.results))
		for _, game := range p.results {
			results = append(results, GameSnapshot{Opponent: game.Opponent(), Score: game.Score()})
		}
		players = append(players, PlayerSnapshot{Rating: p.rating, Results: results})
	})

	return Snapshot{
		LastPeriodStart: e.lastPeriodStart,
		Settings:        e.settings,
		Players:         players,
	}
}

// FromSnapshot rebuilds an engine from a snapshot. Handles issued before the
// snapshot was taken remain valid against the rebuilt engine because player
// order is preserved.
func FromSnapshot(s Snapshot, opts ...Option) *Engine {
	e := NewAt(s.LastPeriodStart, s.Settings, opts...)

	for _, ps := range s.Players {
		results := make([]glicko.Game, 0, len(ps.Results))
		for _, gs := range ps.Results {
			results = append(results, glicko.NewGame(gs.Opponent, gs.Score))
		}
		e.players.Push(player{rating: ps.Rating, results: results})
	}

	return e
}
