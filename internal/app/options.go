package engine

import "github.com/okian/senet/internal/adapters/repository"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPlayerCapacity pre-allocates storage for the expected player count.
func WithPlayerCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.players = repository.NewArena(repository.WithCapacity[player](n))
		}
	}
}
